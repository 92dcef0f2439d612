package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_Defaults(t *testing.T) {
	out := InboundMessage{}.Enrich("2025-06-01T12:00:00Z")

	assert.Equal(t, "message", out.Type)
	assert.Equal(t, "Anonymous", out.User)
	assert.Equal(t, "2025-06-01T12:00:00Z", out.Timestamp)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","content":null,"timestamp":"2025-06-01T12:00:00Z","user":"Anonymous"}`, string(data))
}

func TestEnrich_FieldsPreserved(t *testing.T) {
	in := InboundMessage{
		Type:    "reaction",
		Content: json.RawMessage(`{"emoji":"🔥"}`),
		User:    "sam",
	}
	out := in.Enrich("ts")

	assert.Equal(t, "reaction", out.Type)
	assert.Equal(t, "sam", out.User)
	assert.JSONEq(t, `{"emoji":"🔥"}`, string(out.Content))
}

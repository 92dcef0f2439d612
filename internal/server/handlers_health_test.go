package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t)

	c, rec := newJSONContext(t, http.MethodGet, "/health/live", "")

	err := srv.handleLiveness(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"uptime"`)
}

func TestHandleReadiness(t *testing.T) {
	srv := newTestServer(t, withPinger(pingerFunc(pingOK)))

	c, rec := newJSONContext(t, http.MethodGet, "/health/ready", "")

	err := srv.handleReadiness(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestHandleReadiness_InferenceDown(t *testing.T) {
	down := pingerFunc(func(_ context.Context) error {
		return errors.New("connection refused")
	})
	srv := newTestServer(t, withPinger(down))

	c, rec := newJSONContext(t, http.MethodGet, "/health/ready", "")

	err := srv.handleReadiness(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, rec.Body.String(), `"failed_check":"inference"`)
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	c, rec := newJSONContext(t, http.MethodGet, "/version", "")

	err := srv.handleVersion(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
	assert.Contains(t, rec.Body.String(), `"go_version"`)
}

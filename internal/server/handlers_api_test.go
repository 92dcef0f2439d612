package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadlab/threads-backend/internal/domain"
	apperrors "github.com/threadlab/threads-backend/internal/errors"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleRoot(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodGet, "/", "")
	srv := newTestServer(t)

	err := srv.handleRoot(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"message": "AI Threads Backend Running 🚀",
		"endpoints": {
			"moderate": "/api/moderate",
			"sentiment": "/api/sentiment",
			"summarize": "/api/summarize"
		}
	}`, rec.Body.String())
}

func TestHandleModerate_Toxic(t *testing.T) {
	toxicity := &fakeScorer{result: domain.ScoreResult{Label: "toxic", Confidence: 0.9912}}
	srv := newTestServer(t, withToxicity(toxicity))

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": "I hate you, you are worthless"}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"is_toxic": true,
		"confidence": 0.991,
		"label": "toxic",
		"text_length": 29
	}`, rec.Body.String())
}

func TestHandleModerate_ExactThresholdIsNotToxic(t *testing.T) {
	toxicity := &fakeScorer{result: domain.ScoreResult{Label: "toxic", Confidence: 0.70}}
	srv := newTestServer(t, withToxicity(toxicity))

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": "borderline"}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"is_toxic":false`)
}

func TestHandleModerate_DecisionUsesUnroundedConfidence(t *testing.T) {
	// Rounds down to 0.700 for display but is strictly above the threshold.
	toxicity := &fakeScorer{result: domain.ScoreResult{Label: "toxic", Confidence: 0.7004}}
	srv := newTestServer(t, withToxicity(toxicity))

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": "borderline"}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"is_toxic":true`)
	assert.Contains(t, rec.Body.String(), `"confidence":0.7`)
}

func TestHandleModerate_EmptyText(t *testing.T) {
	toxicity := &fakeScorer{result: domain.ScoreResult{Label: "toxic", Confidence: 0.99}}
	srv := newTestServer(t, withToxicity(toxicity))

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": ""}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error": "No text provided"}`, rec.Body.String())
	assert.Zero(t, toxicity.calls.Load(), "model must not be called for empty input")
}

func TestHandleModerate_MissingTextField(t *testing.T) {
	srv := newTestServer(t)

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "No text provided"}`, rec.Body.String())
}

func TestHandleModerate_TextLengthCountsRunes(t *testing.T) {
	toxicity := &fakeScorer{result: domain.ScoreResult{Label: "non-toxic", Confidence: 0.1}}
	srv := newTestServer(t, withToxicity(toxicity))

	c, rec := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": "héllo😊"}`)

	err := srv.handleModerate(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"text_length":6`)
}

func TestHandleModerate_ModelFailure(t *testing.T) {
	toxicity := &fakeScorer{err: errors.New("inference unavailable")}
	srv := newTestServer(t, withToxicity(toxicity))

	c, _ := newJSONContext(t, http.MethodPost, "/api/moderate", `{"text": "anything"}`)

	err := srv.handleModerate(c)

	require.Error(t, err)
	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
	assert.Equal(t, http.StatusBadGateway, structured.HTTPStatus())
}

func TestHandleSentiment_Positive(t *testing.T) {
	sentiment := &fakeScorer{result: domain.ScoreResult{Label: "POSITIVE", Confidence: 0.9876}}
	srv := newTestServer(t, withSentiment(sentiment))

	c, rec := newJSONContext(t, http.MethodPost, "/api/sentiment", `{"text": "what a lovely day"}`)

	err := srv.handleSentiment(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"sentiment": "POSITIVE",
		"confidence": 0.988,
		"emoji": "😊"
	}`, rec.Body.String())
}

func TestHandleSentiment_UnknownLabelFallsBackToNeutral(t *testing.T) {
	sentiment := &fakeScorer{result: domain.ScoreResult{Label: "MIXED", Confidence: 0.5}}
	srv := newTestServer(t, withSentiment(sentiment))

	c, rec := newJSONContext(t, http.MethodPost, "/api/sentiment", `{"text": "hmm"}`)

	err := srv.handleSentiment(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"emoji":"😐"`)
}

func TestHandleSentiment_EmptyText(t *testing.T) {
	sentiment := &fakeScorer{}
	srv := newTestServer(t, withSentiment(sentiment))

	c, rec := newJSONContext(t, http.MethodPost, "/api/sentiment", `{"text": ""}`)

	err := srv.handleSentiment(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error": "No text provided"}`, rec.Body.String())
	assert.Zero(t, sentiment.calls.Load())
}

func TestHandleSummarize(t *testing.T) {
	srv := newTestServer(t)

	c, rec := newJSONContext(t, http.MethodPost, "/api/summarize", `{"posts": ["first", {"content": "second"}, "third"]}`)

	err := srv.handleSummarize(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"summary": "Thread with 3 posts discussing various topics.",
		"post_count": 3
	}`, rec.Body.String())
}

func TestHandleSummarize_NoPosts(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{`{"posts": []}`, `{}`} {
		c, rec := newJSONContext(t, http.MethodPost, "/api/summarize", body)

		err := srv.handleSummarize(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"error": "No posts provided"}`, rec.Body.String())
	}
}

func TestHandleModerate_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	c, _ := newJSONContext(t, http.MethodPost, "/api/moderate", `{not json`)

	err := srv.handleModerate(c)

	require.Error(t, err)
	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeValidation, structured.Type)
}

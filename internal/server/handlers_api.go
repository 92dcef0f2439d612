package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/threadlab/threads-backend/internal/classify"
	"github.com/threadlab/threads-backend/internal/domain"
	apperrors "github.com/threadlab/threads-backend/internal/errors"
	"github.com/threadlab/threads-backend/internal/metrics"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type summarizeRequest struct {
	Posts []json.RawMessage `json:"posts"`
}

func (s *Server) handleRoot(c echo.Context) error {
	response := map[string]any{
		"message": "AI Threads Backend Running \U0001F680",
		"endpoints": map[string]string{
			"moderate":  "/api/moderate",
			"sentiment": "/api/sentiment",
			"summarize": "/api/summarize",
		},
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write root response: %w", err)
	}
	return nil
}

func (s *Server) handleModerate(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("moderate", "invalid").Inc()
		return apperrors.ValidationError("invalid request body")
	}

	result, err := s.toxicity.Score(c.Request().Context(), req.Text)
	if errors.Is(err, domain.ErrEmptyInput) {
		metrics.AnalysisRequestsTotal.WithLabelValues("moderate", "empty_input").Inc()
		return emptyInputResponse(c, "No text provided")
	}
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("moderate", "error").Inc()
		return apperrors.ExternalError("toxicity analysis failed", err).
			WithField("endpoint", "moderate")
	}

	metrics.AnalysisRequestsTotal.WithLabelValues("moderate", "ok").Inc()

	response := map[string]any{
		"is_toxic":    classify.IsToxic(result),
		"confidence":  classify.Round3(result.Confidence),
		"label":       result.Label,
		"text_length": utf8.RuneCountInString(req.Text),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write moderation response: %w", err)
	}
	return nil
}

func (s *Server) handleSentiment(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("sentiment", "invalid").Inc()
		return apperrors.ValidationError("invalid request body")
	}

	result, err := s.sentiment.Score(c.Request().Context(), req.Text)
	if errors.Is(err, domain.ErrEmptyInput) {
		metrics.AnalysisRequestsTotal.WithLabelValues("sentiment", "empty_input").Inc()
		return emptyInputResponse(c, "No text provided")
	}
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("sentiment", "error").Inc()
		return apperrors.ExternalError("sentiment analysis failed", err).
			WithField("endpoint", "sentiment")
	}

	metrics.AnalysisRequestsTotal.WithLabelValues("sentiment", "ok").Inc()

	response := map[string]any{
		"sentiment":  result.Label,
		"confidence": classify.Round3(result.Confidence),
		"emoji":      classify.SentimentEmoji(result.Label),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write sentiment response: %w", err)
	}
	return nil
}

// handleSummarize is a placeholder: it reports thread size without calling a
// summarization model. The response shape is stable so clients can integrate
// against it before the model lands.
func (s *Server) handleSummarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("summarize", "invalid").Inc()
		return apperrors.ValidationError("invalid request body")
	}

	if len(req.Posts) == 0 {
		metrics.AnalysisRequestsTotal.WithLabelValues("summarize", "empty_input").Inc()
		return emptyInputResponse(c, "No posts provided")
	}

	metrics.AnalysisRequestsTotal.WithLabelValues("summarize", "ok").Inc()

	response := map[string]any{
		"summary":    fmt.Sprintf("Thread with %d posts discussing various topics.", len(req.Posts)),
		"post_count": len(req.Posts),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write summary response: %w", err)
	}
	return nil
}

// emptyInputResponse reports missing input as a 200 with an error field.
// Clients treat it as a soft failure rather than a transport error.
func emptyInputResponse(c echo.Context, message string) error {
	if err := c.JSON(http.StatusOK, map[string]string{"error": message}); err != nil {
		return fmt.Errorf("failed to write empty input response: %w", err)
	}
	return nil
}

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"github.com/threadlab/threads-backend/internal/domain"
	"github.com/threadlab/threads-backend/internal/logging"
	"github.com/threadlab/threads-backend/internal/metrics"
)

const (
	circuitFailureThreshold = 5
	circuitOpenDuration     = 30 * time.Second
	maxResponseBytes        = 1 << 20 // 1 MiB
)

// Client talks to a text-classification inference server exposing
// Hugging Face pipeline semantics: POST /models/{model} with {"inputs": text}
// returns a list of {label, score} candidates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the given inference server base URL.
// timeout bounds each classification request end to end.
func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "inference",
		Timeout: circuitOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= circuitFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			metrics.InferenceCircuitState.Set(stateToFloat(to))
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify scores text with the named model and returns the top candidate.
func (c *Client) Classify(ctx context.Context, model, text string) (domain.ScoreResult, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		return c.classify(ctx, model, text)
	})
	if err != nil {
		metrics.InferenceErrorsTotal.WithLabelValues(model).Inc()
		logging.WithModel(model).WarnContext(ctx, "Inference request failed", "error", err)
		return domain.ScoreResult{}, err
	}

	metrics.InferenceDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	return result.(domain.ScoreResult), nil
}

func (c *Client) classify(ctx context.Context, model, text string) (domain.ScoreResult, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("failed to encode classify request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", c.baseURL, url.PathEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ScoreResult{}, fmt.Errorf("inference server returned status %d for model %s", resp.StatusCode, model)
	}

	candidates, err := decodeCandidates(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.ScoreResult{}, err
	}

	top := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > top.Score {
			top = cand
		}
	}
	return domain.ScoreResult{Label: top.Label, Confidence: top.Score}, nil
}

// decodeCandidates accepts both response shapes the pipeline API produces:
// a flat list [{label, score}] and a nested list [[{label, score}]].
func decodeCandidates(r io.Reader) ([]candidate, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	var flat []candidate
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	var nested [][]candidate
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	return nil, fmt.Errorf("inference response has no candidates: %s", truncateForLog(raw))
}

func truncateForLog(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// Ping checks that the inference server is reachable. Used by readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("inference server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Pipeline binds the client to one model, satisfying domain.Classifier.
type Pipeline struct {
	client *Client
	model  string
}

// NewPipeline creates a Classifier backed by the named model.
func NewPipeline(client *Client, model string) *Pipeline {
	return &Pipeline{client: client, model: model}
}

// Classify implements domain.Classifier.
func (p *Pipeline) Classify(ctx context.Context, text string) (domain.ScoreResult, error) {
	return p.client.Classify(ctx, p.model, text)
}

package server

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/threadlab/threads-backend/internal/config"
	"github.com/threadlab/threads-backend/internal/domain"
)

// fakeScorer mirrors the real scorer's contract: empty text is rejected
// before any model call.
type fakeScorer struct {
	result domain.ScoreResult
	err    error
	calls  atomic.Int64
}

func (f *fakeScorer) Score(_ context.Context, text string) (domain.ScoreResult, error) {
	if text == "" {
		return domain.ScoreResult{}, domain.ErrEmptyInput
	}
	f.calls.Add(1)
	if f.err != nil {
		return domain.ScoreResult{}, f.err
	}
	return f.result, nil
}

type stubRegistry struct {
	registered   atomic.Int64
	unregistered atomic.Int64
}

func (s *stubRegistry) Register(_ *websocket.Conn) error {
	s.registered.Add(1)
	return nil
}

func (s *stubRegistry) Unregister(_ *websocket.Conn) {
	s.unregistered.Add(1)
}

type stubBroadcaster struct {
	frames atomic.Int64
}

func (s *stubBroadcaster) HandleMessage(_ string, _ []byte) error {
	s.frames.Add(1)
	return nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func pingOK(_ context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:           "development",
		Port:             "8000",
		AllowedOrigin:    "http://localhost:5173",
		InferenceURL:     "http://localhost:9000",
		MaxConnections:   100,
		APIRatePerSecond: 100,
		APIRateBurst:     100,
	}
}

type serverOption func(*testServerParams)

type testServerParams struct {
	cfg         *config.Config
	toxicity    scorer
	sentiment   scorer
	registry    connectionRegistry
	coordinator broadcaster
	pinger      healthPinger
}

func withConfig(cfg *config.Config) serverOption {
	return func(p *testServerParams) { p.cfg = cfg }
}

func withToxicity(s scorer) serverOption {
	return func(p *testServerParams) { p.toxicity = s }
}

func withSentiment(s scorer) serverOption {
	return func(p *testServerParams) { p.sentiment = s }
}

func withRegistry(r connectionRegistry) serverOption {
	return func(p *testServerParams) { p.registry = r }
}

func withCoordinator(b broadcaster) serverOption {
	return func(p *testServerParams) { p.coordinator = b }
}

func withPinger(pinger healthPinger) serverOption {
	return func(p *testServerParams) { p.pinger = pinger }
}

func newTestServer(t *testing.T, opts ...serverOption) *Server {
	t.Helper()

	params := &testServerParams{
		cfg:         testConfig(),
		toxicity:    &fakeScorer{},
		sentiment:   &fakeScorer{},
		registry:    &stubRegistry{},
		coordinator: &stubBroadcaster{},
		pinger:      pingerFunc(pingOK),
	}
	for _, opt := range opts {
		opt(params)
	}

	return NewServer(params.cfg, params.toxicity, params.sentiment, params.registry, params.coordinator, params.pinger)
}

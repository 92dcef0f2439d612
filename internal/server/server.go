package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/threadlab/threads-backend/internal/config"
	"github.com/threadlab/threads-backend/internal/domain"
)

// scorer classifies a single text, applying the input policy (empty check,
// truncation) before the model call.
type scorer interface {
	Score(ctx context.Context, text string) (domain.ScoreResult, error)
}

// connectionRegistry tracks live websocket connections in registration order.
type connectionRegistry interface {
	Register(conn *websocket.Conn) error
	Unregister(conn *websocket.Conn)
}

// broadcaster turns an inbound frame into an enriched broadcast.
type broadcaster interface {
	HandleMessage(connID string, raw []byte) error
}

// healthPinger reports reachability of the inference backend.
type healthPinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	toxicity  scorer
	sentiment scorer

	registry    connectionRegistry
	coordinator broadcaster
	pinger      healthPinger

	limiter  *GlobalConnectionLimiter
	upgrader websocket.Upgrader

	startTime time.Time
}

func NewServer(cfg *config.Config, toxicity, sentiment scorer, registry connectionRegistry, coordinator broadcaster, pinger healthPinger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:        e,
		config:      cfg,
		toxicity:    toxicity,
		sentiment:   sentiment,
		registry:    registry,
		coordinator: coordinator,
		pinger:      pinger,
		limiter:     NewGlobalConnectionLimiter(cfg.MaxConnections),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     newCheckOrigin(cfg.AllowedOrigin, cfg.AppEnv == "development"),
		},
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

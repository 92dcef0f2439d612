package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/threadlab/threads-backend/internal/logging"
	"github.com/threadlab/threads-backend/internal/metrics"
)

func (s *Server) handleWebSocket(c echo.Context) error {
	if !s.limiter.Acquire() {
		metrics.ConnectionsRejectedTotal.Inc()
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "connection limit reached",
		})
	}
	defer s.limiter.Release()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade websocket: %w", err)
	}

	connID := uuid.NewString()
	log := logging.WithConnection(connID)

	if err := s.registry.Register(conn); err != nil {
		log.Warn("Failed to register websocket client", "error", err)
		_ = conn.Close()
		return nil
	}

	log.Info("WebSocket client connected", "remote_addr", c.RealIP())

	// Read pump. Malformed frames are dropped inside HandleMessage and the
	// connection stays open, so errors from it never end the loop.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = s.coordinator.HandleMessage(connID, raw)
	}

	s.registry.Unregister(conn)
	log.Info("WebSocket client disconnected")

	return nil
}

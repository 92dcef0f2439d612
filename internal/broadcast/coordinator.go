package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/threadlab/threads-backend/internal/domain"
	"github.com/threadlab/threads-backend/internal/metrics"
)

// Coordinator turns inbound frames into enriched outbound messages and hands
// them to the registry for fan-out.
type Coordinator struct {
	registry *Registry
	clock    clockwork.Clock
}

// NewCoordinator creates a coordinator broadcasting through registry.
// The clock stamps outbound messages at send preparation time.
func NewCoordinator(registry *Registry, clock clockwork.Clock) *Coordinator {
	return &Coordinator{registry: registry, clock: clock}
}

// HandleMessage processes one raw frame from a connection. An unparseable
// frame is counted, logged, and dropped - the error is local to the sender
// and the connection stays open. A valid frame is enriched (defaulted type
// and user, server timestamp) and delivered to every registered connection,
// including the sender.
func (co *Coordinator) HandleMessage(connID string, raw []byte) error {
	var inbound domain.InboundMessage
	if err := json.Unmarshal(raw, &inbound); err != nil {
		metrics.MalformedFramesTotal.Inc()
		slog.Warn("Dropping malformed frame", "conn_id", connID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrMalformedMessage, err)
	}

	outbound := inbound.Enrich(co.clock.Now().Format(time.RFC3339Nano))

	data, err := json.Marshal(outbound)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "conn_id", connID, "error", err)
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}

	co.registry.Broadcast(data)
	return nil
}

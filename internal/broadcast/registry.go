package broadcast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/threadlab/threads-backend/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// --- Command types ---

type registryCmd interface{ registryCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) registryCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) registryCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) registryCmd() {}

type cmdCount struct {
	replyCh chan int
}

func (cmdCount) registryCmd() {}

type cmdStop struct{}

func (cmdStop) registryCmd() {}

// client is one tracked connection: the opaque handle plus its writer.
// The id exists only for logging.
type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	writer *clientWriter
}

// Registry tracks live websocket connections in insertion order, with no
// duplicates. A single goroutine owns all state; the exported methods are
// thin command wrappers, safe to call from any connection's read loop.
type Registry struct {
	cmdCh   chan registryCmd
	clock   clockwork.Clock
	clients []*client                   // insertion order, drives fan-out order
	index   map[*websocket.Conn]*client // handle equality is identity
	done    chan struct{}
}

// NewRegistry creates a registry and starts its goroutine.
func NewRegistry(clock clockwork.Clock) *Registry {
	r := &Registry{
		cmdCh: make(chan registryCmd, 256),
		clock: clock,
		index: make(map[*websocket.Conn]*client),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Register adds a connection after its handshake has succeeded. Registering
// a handle that is already present is a no-op.
func (r *Registry) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	r.cmdCh <- cmdRegister{conn: conn, errCh: errCh}

	timer := r.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection. Silently a no-op when the handle is
// already gone - disconnects are observed through multiple paths and may
// race each other.
func (r *Registry) Unregister(conn *websocket.Conn) {
	r.cmdCh <- cmdUnregister{conn: conn}
}

// Broadcast queues a fan-out of data to every registered connection.
func (r *Registry) Broadcast(data []byte) {
	r.cmdCh <- cmdBroadcast{data: data}
}

// Count returns the number of registered connections, or -1 on timeout.
func (r *Registry) Count() int {
	replyCh := make(chan int, 1)
	r.cmdCh <- cmdCount{replyCh: replyCh}

	timer := r.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("Count timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the registry, closing every connection with a close frame.
// Blocks until the registry goroutine has exited or the timeout is reached.
func (r *Registry) Stop() {
	r.cmdCh <- cmdStop{}

	timer := r.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-r.done:
		slog.Info("Registry stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Registry stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (r *Registry) run() {
	defer close(r.done)

	for cmd := range r.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			r.handleRegister(c)
		case cmdUnregister:
			r.handleUnregister(c.conn)
		case cmdBroadcast:
			r.handleBroadcast(c.data)
		case cmdCount:
			c.replyCh <- len(r.clients)
		case cmdStop:
			r.handleStop()
			return
		default:
			slog.Warn("Registry received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (r *Registry) handleRegister(c cmdRegister) {
	if _, exists := r.index[c.conn]; exists {
		c.errCh <- nil
		return
	}

	cl := &client{
		id:     uuid.New(),
		conn:   c.conn,
		writer: newClientWriter(c.conn, r.clock),
	}
	r.clients = append(r.clients, cl)
	r.index[c.conn] = cl

	metrics.ConnectedClients.Set(float64(len(r.clients)))
	slog.Debug("Client registered", "conn_id", cl.id.String(), "total_clients", len(r.clients))
	c.errCh <- nil
}

func (r *Registry) handleUnregister(conn *websocket.Conn) {
	cl, exists := r.index[conn]
	if !exists {
		return
	}

	delete(r.index, conn)
	for i, existing := range r.clients {
		if existing == cl {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			break
		}
	}
	cl.writer.stop()

	metrics.ConnectedClients.Set(float64(len(r.clients)))
	slog.Debug("Client unregistered", "conn_id", cl.id.String(), "remaining_clients", len(r.clients))
}

// handleBroadcast delivers data to every client in insertion order. A failed
// delivery never aborts the pass; failed handles are unregistered after the
// pass completes.
func (r *Registry) handleBroadcast(data []byte) {
	metrics.BroadcastsTotal.Inc()

	var failed []*client
	for _, cl := range r.clients {
		if !cl.writer.send(data) {
			failed = append(failed, cl)
		}
	}

	for _, cl := range failed {
		slog.Warn("Dropping unreachable client", "conn_id", cl.id.String())
		metrics.DeliveryFailuresTotal.Inc()
		r.handleUnregister(cl.conn)
	}
}

func (r *Registry) handleStop() {
	slog.Info("Registry shutting down", "clients", len(r.clients))

	for _, cl := range r.clients {
		cl.writer.stopGraceful("Server shutting down")
	}
	r.clients = nil
	r.index = make(map[*websocket.Conn]*client)
	metrics.ConnectedClients.Set(0)
}

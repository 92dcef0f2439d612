package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/threadlab/threads-backend/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	idleTimeout       = 5 * time.Minute
	idleWarningTime   = 4 * time.Minute // Warn 1 minute before disconnect
	messageBufferSize = 16
)

// clientWriter serializes all writes to one websocket connection through a
// buffered channel, keeps the connection alive with pings, and evicts idle
// peers. When its goroutine exits for any reason the connection is closed,
// so the read pump observes the closure and unregisters the handle.
type clientWriter struct {
	connection    *websocket.Conn
	clock         clockwork.Clock
	sendChannel   chan []byte
	doneChannel   chan struct{}
	deadChannel   chan struct{}
	stopOnce      sync.Once
	deadOnce      sync.Once
	wg            sync.WaitGroup
	lastActivity  time.Time
	activityMutex sync.Mutex
	warningSent   bool
}

func newClientWriter(connection *websocket.Conn, clock clockwork.Clock) *clientWriter {
	cw := &clientWriter{
		connection:   connection,
		clock:        clock,
		sendChannel:  make(chan []byte, messageBufferSize),
		doneChannel:  make(chan struct{}),
		deadChannel:  make(chan struct{}),
		lastActivity: clock.Now(),
	}
	cw.configurePongHandler()
	cw.wg.Add(1)
	go cw.run()
	return cw
}

// send queues a message for delivery. It reports false when the writer is
// dead or its buffer is full; the caller treats both as a failed delivery.
func (cw *clientWriter) send(msg []byte) bool {
	select {
	case <-cw.deadChannel:
		return false
	default:
	}

	select {
	case cw.sendChannel <- msg:
		return true
	case <-cw.deadChannel:
		return false
	default:
		// Buffer full - the peer is too slow to keep up.
		return false
	}
}

func (cw *clientWriter) run() {
	ticker := cw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cw.wg.Done()

	for {
		select {
		case msg := <-cw.sendChannel:
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				cw.markDead()
				return
			}
		case <-ticker.Chan():
			if cw.checkIdleTimeout() {
				metrics.IdleDisconnects.Inc()
				cw.markDead()
				return
			}

			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				cw.markDead()
				return
			}
		case <-cw.doneChannel:
			return
		}
	}
}

// markDead signals delivery failure to senders and closes the connection so
// the read pump unblocks. Safe to call from both run and stop paths.
func (cw *clientWriter) markDead() {
	cw.deadOnce.Do(func() {
		close(cw.deadChannel)
		_ = cw.connection.Close()
	})
}

func (cw *clientWriter) stop() {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)
	})
	cw.wg.Wait()
	cw.markDead()
}

// stopGraceful sends a websocket close frame with reason before closing.
func (cw *clientWriter) stopGraceful(reason string) {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)

		// Wait for the run goroutine to exit before writing the close frame;
		// gorilla connections do not tolerate concurrent writers.
		cw.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		cw.updateWriteDeadline()
		_ = cw.connection.WriteMessage(websocket.CloseMessage, closeMsg)
	})
	cw.wg.Wait()
	cw.markDead()
}

func (cw *clientWriter) configurePongHandler() {
	cw.updateReadDeadline()
	cw.connection.SetPongHandler(func(string) error {
		cw.updateReadDeadline()
		cw.recordActivity()
		return nil
	})
}

func (cw *clientWriter) updateWriteDeadline() {
	deadline := cw.clock.Now().Add(writeDeadline)
	_ = cw.connection.SetWriteDeadline(deadline)
}

func (cw *clientWriter) updateReadDeadline() {
	deadline := cw.clock.Now().Add(pongDeadline)
	_ = cw.connection.SetReadDeadline(deadline)
}

// recordActivity updates the last activity timestamp.
func (cw *clientWriter) recordActivity() {
	cw.activityMutex.Lock()
	defer cw.activityMutex.Unlock()
	cw.lastActivity = cw.clock.Now()
	cw.warningSent = false
}

// checkIdleTimeout checks if the connection is idle and sends a warning or
// disconnects. Returns true if the connection should be terminated.
func (cw *clientWriter) checkIdleTimeout() bool {
	cw.activityMutex.Lock()
	idleDuration := cw.clock.Since(cw.lastActivity)
	warningSent := cw.warningSent
	cw.activityMutex.Unlock()

	if idleDuration >= idleTimeout {
		return true
	}

	if !warningSent && idleDuration >= idleWarningTime {
		warning := []byte(`{"warning":"Connection idle. Will disconnect if no activity within 1 minute."}`)
		cw.updateWriteDeadline()
		if err := cw.connection.WriteMessage(websocket.TextMessage, warning); err == nil {
			cw.activityMutex.Lock()
			cw.warningSent = true
			cw.activityMutex.Unlock()
		}
	}

	return false
}

// Package relay implements the subscriber-facing WebSocket push endpoint.
//
// Each subscriber gets an independent duplex session: one goroutine forwards
// newly published signals, one drains inbound frames to detect closure.
// Whichever ends first tears down the other. A subscriber's failure is fully
// local; it never affects the ingestor or any other session.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cryptoscan/agent/internal/broadcast"
	"github.com/cryptoscan/agent/internal/metrics"
	"github.com/cryptoscan/agent/internal/model"
)

// Hub tracks connected subscribers and serves the WebSocket upgrade route.
type Hub struct {
	cell     *broadcast.Cell[model.Signal]
	logger   *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	// Live subscriber count. The lock is held only for the duration of the
	// increment/decrement, never across I/O.
	mu          sync.Mutex
	subscribers int
}

// NewHub creates a Hub forwarding from cell. A nil metrics sink gets an
// unregistered no-op instance.
func NewHub(cell *broadcast.Cell[model.Signal], logger *slog.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}

	return &Hub{
		cell:    cell,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribers returns the number of currently connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subscribers
}

// ServeHTTP upgrades the request to a WebSocket and runs the session until
// either side ends it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.runSession(r.Context(), conn)
}

// runSession drives one subscriber session: Active until either the forward
// or drain loop ends, then Closing (the peer loop is cancelled), then Closed.
func (h *Hub) runSession(ctx context.Context, conn *websocket.Conn) {
	logger := h.logger.With("session_id", uuid.NewString())

	// Snapshot the generation before the session is registered: subscribers
	// receive signals published after they connect, not the stale
	// pre-connect value.
	_, gen := h.cell.Current()

	h.mu.Lock()
	h.subscribers++
	count := h.subscribers
	h.mu.Unlock()
	h.metrics.Subscribers.Inc()
	logger.Info("subscriber connected", "subscribers", count)

	g, ctx := errgroup.WithContext(ctx)

	// Closing the connection is what unblocks whichever loop is still
	// parked in a read or write when the other one ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	g.Go(func() error { return h.forward(ctx, conn, gen) })
	g.Go(func() error { return drain(conn) })

	err := g.Wait()
	stop()
	conn.Close()

	h.mu.Lock()
	h.subscribers--
	count = h.subscribers
	h.mu.Unlock()
	h.metrics.Subscribers.Dec()
	logger.Info("subscriber disconnected", "subscribers", count, "reason", err)
}

// forward pushes each newly published signal to the subscriber as a JSON
// text frame, starting after generation gen. A slow subscriber skips
// superseded signals: only the latest is delivered. Ends on the first write
// failure.
func (h *Hub) forward(ctx context.Context, conn *websocket.Conn, gen uint64) error {
	for {
		sig, next, err := h.cell.Observe(ctx, gen)
		if err != nil {
			return err
		}
		gen = next

		data, err := json.Marshal(sig)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
	}
}

// drain reads and discards inbound frames until the subscriber closes its
// send side or errors. Inbound frames carry no meaning; reading them is only
// how closure is detected.
func drain(conn *websocket.Conn) error {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
	}
}

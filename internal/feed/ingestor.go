package feed

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cryptoscan/agent/internal/broadcast"
	"github.com/cryptoscan/agent/internal/metrics"
	"github.com/cryptoscan/agent/internal/model"
	"github.com/cryptoscan/agent/internal/signal"
)

// State describes the upstream connection lifecycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Config holds ingestor settings.
type Config struct {
	URL     string          // Upstream WebSocket URL
	Backoff []time.Duration // Reconnect delay schedule, cycled forever
}

// DefaultConfig returns sensible defaults (Binance all-market ticker stream).
func DefaultConfig() Config {
	return Config{
		URL: "wss://stream.binance.com:9443/ws/!ticker@arr",
		Backoff: []time.Duration{
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			16 * time.Second,
		},
	}
}

// Ingestor maintains the upstream connection forever, publishing extracted
// signals to the broadcast cell in frame arrival order.
type Ingestor struct {
	cfg     Config
	dialer  Dialer
	cell    *broadcast.Cell[model.Signal]
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Injectable clock, so tests can simulate the backoff schedule without
	// wall-clock waits.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	state atomic.Int32
}

// New creates an Ingestor publishing to cell. A nil dialer uses WSDialer; a
// nil metrics sink gets an unregistered no-op instance.
func New(cfg Config, dialer Dialer, cell *broadcast.Cell[model.Signal], logger *slog.Logger, m *metrics.Metrics) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if dialer == nil {
		dialer = WSDialer{}
	}
	if m == nil {
		m = metrics.New()
	}
	if len(cfg.Backoff) == 0 {
		cfg.Backoff = DefaultConfig().Backoff
	}

	return &Ingestor{
		cfg:     cfg,
		dialer:  dialer,
		cell:    cell,
		logger:  logger,
		metrics: m,
		sleep:   sleepCtx,
		now:     time.Now,
	}
}

// State returns the current connection state.
func (i *Ingestor) State() State {
	return State(i.state.Load())
}

// Run maintains the upstream connection until ctx is cancelled; it has no
// other way to return. Every failure (connect refusal, transport error, or a
// frame the extractor rejects) feeds back into the backoff schedule.
func (i *Ingestor) Run(ctx context.Context) error {
	failures := 0

	for {
		if failures > 0 {
			delay := i.cfg.Backoff[(failures-1)%len(i.cfg.Backoff)]
			i.logger.Info("reconnecting to upstream",
				"delay", delay,
				"attempt", failures,
			)
			i.metrics.Reconnects.Inc()
			if err := i.sleep(ctx, delay); err != nil {
				return err
			}
		}

		i.state.Store(int32(StateConnecting))
		conn, err := i.dialer.Dial(ctx, i.cfg.URL)
		if err != nil {
			i.state.Store(int32(StateDisconnected))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			i.logger.Error("upstream connect failed",
				"url", i.cfg.URL,
				"error", err,
			)
			failures++
			continue
		}

		i.state.Store(int32(StateStreaming))
		i.logger.Info("connected to upstream feed", "url", i.cfg.URL)
		i.metrics.UpstreamConnected.Set(1)

		// Unblock the frame read when ctx is cancelled mid-stream.
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		err = i.stream(conn)
		stop()
		conn.Close()

		i.state.Store(int32(StateDisconnected))
		i.metrics.UpstreamConnected.Set(0)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		i.logger.Warn("upstream stream ended", "error", err)
		failures = 1
	}
}

// stream consumes frames until the connection fails or a frame fails
// extraction. A malformed frame drops the whole connection: upstream
// data-quality issues share the reconnect path with transport failures.
func (i *Ingestor) stream(conn Conn) error {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			return err
		}
		i.metrics.FramesReceived.Inc()

		signals, err := signal.Extract(frame, i.now())
		if err != nil {
			return err
		}

		for _, sig := range signals {
			i.cell.Publish(sig)
			i.metrics.SignalsPublished.Inc()
		}
	}
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

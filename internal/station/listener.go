package station

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/observability"
)

// maxPacketSize comfortably fits any Tempest broadcast message.
const maxPacketSize = 4096

// Publisher forwards decoded observations to an external sink. Optional.
type Publisher interface {
	Publish(ctx context.Context, obs domain.Observation) error
}

// Listener receives Tempest broadcast packets for the lifetime of the
// process and keeps the Store current. Malformed packets are counted and
// skipped; socket errors are logged and the loop retries.
type Listener struct {
	addr      string
	store     *Store
	publisher Publisher // may be nil
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewListener creates a listener bound to addr (e.g. ":50222") that writes
// into store. publisher may be nil to disable forwarding.
func NewListener(addr string, store *Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Listener {
	return &Listener{
		addr:      addr,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one observation has been decoded.
func (l *Listener) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("no station observation received yet")
	}
	return nil
}

// Run binds the UDP socket and receives packets until the context is
// cancelled. Transient receive errors never terminate the loop.
func (l *Listener) Run(ctx context.Context) error {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", l.addr)
	if err != nil {
		return err
	}
	l.logger.Info("broadcast listener started", "addr", conn.LocalAddr().String())
	return l.run(ctx, conn)
}

func (l *Listener) run(ctx context.Context, conn net.PacketConn) error {
	l.metrics.ListenerRunning.Set(1)
	defer l.metrics.ListenerRunning.Set(0)

	// Unblock ReadFrom when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, maxPacketSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("broadcast listener stopping", "reason", ctx.Err())
				return nil
			}
			l.logger.Error("udp receive failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		l.metrics.PacketsReceived.Inc()
		l.handlePacket(ctx, buf[:n])
	}
}

func (l *Listener) handlePacket(ctx context.Context, payload []byte) {
	obs, ok, err := domain.DecodePacket(payload)
	if err != nil {
		l.metrics.PacketsDiscarded.Inc()
		l.logger.Debug("discarding malformed packet", "error", err)
		return
	}
	if !ok {
		return
	}

	l.store.Put(obs)
	l.metrics.ObservationsSeen.Inc()
	l.ready.Store(true)

	if l.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := l.publisher.Publish(pubCtx, obs); err != nil {
			l.logger.Warn("observation publish failed", "error", err)
		}
		cancel()
	}
}

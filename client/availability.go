package client

import (
	"context"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// ConnState describes the client's view of the remote service.
type ConnState int32

const (
	// StateDisconnected means the last remote call failed at the transport
	// level; writes go to the local fallback store.
	StateDisconnected ConnState = iota
	// StateConnecting means a probe is in flight.
	StateConnecting
	// StateConnected means the remote service answered its last health probe.
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// monitor tracks remote availability. Any goroutine may flip it to
// disconnected; only the probe loop flips it back.
type monitor struct {
	state  atomic.Int32
	remote *remoteStore
	log    zerolog.Logger
}

func newMonitor(remote *remoteStore, log zerolog.Logger) *monitor {
	m := &monitor{remote: remote, log: log}
	m.state.Store(int32(StateConnected))
	return m
}

func (m *monitor) State() ConnState { return ConnState(m.state.Load()) }

func (m *monitor) IsAvailable() bool { return m.State() == StateConnected }

// MarkDisconnected records a transport failure. Idempotent.
func (m *monitor) MarkDisconnected() {
	if m.state.Swap(int32(StateDisconnected)) != int32(StateDisconnected) {
		disconnectsTotal.Inc()
		m.log.Warn().Msg("Remote service unreachable, using local fallback")
	}
}

// probe performs a single health check and updates the state.
func (m *monitor) probe(ctx context.Context) {
	if m.State() == StateConnected {
		return
	}
	m.state.Store(int32(StateConnecting))
	if err := m.remote.Health(ctx); err != nil {
		m.state.Store(int32(StateDisconnected))
		return
	}
	m.state.Store(int32(StateConnected))
	m.log.Info().Msg("Remote service reachable again")
}

// newProbeBackoff paces reconnect attempts: starts at the configured interval
// and doubles up to a cap while the remote stays down.
func newProbeBackoff(interval time.Duration) *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = interval
	exp.Multiplier = 2
	exp.MaxInterval = 8 * interval
	exp.MaxElapsedTime = 0 // keep probing for as long as the client lives
	exp.Reset()
	return exp
}

// Start runs the probe loop until ctx is cancelled. While connected it wakes
// at the fixed interval; once disconnected, probes back off exponentially.
func (m *monitor) Start(ctx context.Context, interval time.Duration) {
	exp := newProbeBackoff(interval)
	for {
		wait := interval
		if m.State() != StateConnected {
			wait = exp.NextBackOff()
		} else {
			exp.Reset()
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			m.probe(ctx)
		}
	}
}

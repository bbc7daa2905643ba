package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubPinger struct {
	mu  sync.Mutex
	err error
}

func (p *stubPinger) HealthPing(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubPinger) set(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHealthCheckerTracksPinger(t *testing.T) {
	p := &stubPinger{}
	c := NewHealthChecker("sqlite", p, zerolog.Nop())
	if c.Name() != "sqlite" {
		t.Fatalf("name: %q", c.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, 20*time.Millisecond)

	waitFor(t, c.IsHealthy)

	p.set(errors.New("connection refused"))
	waitFor(t, func() bool { return !c.IsHealthy() })

	p.set(nil)
	waitFor(t, c.IsHealthy)
}

package client

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeBackoffGrows(t *testing.T) {
	interval := 100 * time.Millisecond
	exp := newProbeBackoff(interval)

	// Jitter aside, waits must grow toward the cap and never stop.
	var last time.Duration
	for i := 0; i < 6; i++ {
		last = exp.NextBackOff()
		require.NotEqual(t, backoff.Stop, last)
		assert.LessOrEqual(t, last, exp.MaxInterval+exp.MaxInterval/2)
	}
	assert.GreaterOrEqual(t, last, 2*interval)

	// Reset starts the ramp over.
	exp.Reset()
	assert.LessOrEqual(t, exp.NextBackOff(), interval+interval/2)
}

func TestFallbackCountersRecorded(t *testing.T) {
	srv := newBackend(t)
	url := srv.URL
	srv.Close()

	createsBefore := testutil.ToFloat64(fallbackOpsTotal.WithLabelValues("create memory"))
	disconnectsBefore := testutil.ToFloat64(disconnectsTotal)

	c := newTestClient(t, url)
	sess := &Session{UserID: 1, Username: "alice", Role: "member"}
	_, err := c.CreateMemory(context.Background(), sess, "Counted post", "", "https://example.com/p.jpg")
	require.NoError(t, err)

	assert.Equal(t, createsBefore+1, testutil.ToFloat64(fallbackOpsTotal.WithLabelValues("create memory")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(disconnectsTotal), disconnectsBefore+1)
}

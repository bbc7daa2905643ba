package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memories_client",
			Name:      "remote_requests_total",
			Help:      "Remote API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	fallbackOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memories_client",
			Name:      "fallback_operations_total",
			Help:      "Operations served by the local fallback store.",
		},
		[]string{"op"},
	)

	disconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "memories_client",
			Name:      "remote_disconnects_total",
			Help:      "Transitions into the disconnected state.",
		},
	)
)

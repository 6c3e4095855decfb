// Package metrics declares the portal's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "isukupay_portal"

var (
	// GuardDecisionsTotal counts route-guard outcomes per guard.
	GuardDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard decisions partitioned by guard and outcome.",
	}, []string{"guard", "outcome"})

	// SilentRefreshesTotal counts transparent token refreshes triggered by a
	// 401 from the backend.
	SilentRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "silent_refreshes_total",
		Help:      "Silent access-token refreshes partitioned by result.",
	}, []string{"result"})

	// SessionLoginsTotal counts portal login attempts.
	SessionLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Portal login attempts partitioned by result.",
	}, []string{"result"})
)

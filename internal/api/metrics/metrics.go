// Package metrics defines and registers all custom Prometheus metrics for the
// IsukuPay auth API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "isukupay_api"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success", "exists", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token refresh attempts.
// Label:
//   - result: "success", "revoked", "invalid", or "error"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests, including those carrying an already
// invalid refresh token.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

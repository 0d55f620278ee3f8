// Package metrics defines the custom Prometheus metrics of the web app. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered on the registry handed to New so that every router
// (and every test) owns an isolated set of collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "webapp"

// Login results.
const (
	LoginSuccess  = "success"
	LoginFailure  = "failure"
	LoginInactive = "inactive"
)

type Metrics struct {
	// LoginAttempts counts password exchanges.
	// Label:
	//   - result: "success", "failure" or "inactive"
	LoginAttempts *prometheus.CounterVec

	// ExampleMutations counts successful writes to examples.
	// Label:
	//   - op: "create", "update" or "delete"
	ExampleMutations *prometheus.CounterVec

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_login_attempts_total",
				Help:      "Total number of token requests, by result.",
			},
			[]string{"result"},
		),
		ExampleMutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "examples_mutations_total",
				Help:      "Total number of example create/update/delete operations.",
			},
			[]string{"op"},
		),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
	}
}

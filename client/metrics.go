package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spindo",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Outbound API requests by method and outcome.",
	}, []string{"method", "outcome"})

	refreshRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "spindo",
		Subsystem: "client",
		Name:      "refresh_retries_total",
		Help:      "Requests retried after a 401 triggered a token refresh.",
	})
)

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeNetwork = "network_error"
	outcomeExpired = "session_expired"
)

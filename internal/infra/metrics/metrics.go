package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessRequests считает запросы к контенту по потоку (free|part) и итогу.
	AccessRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vipbot",
		Name:      "access_requests_total",
		Help:      "Content access requests by flow and outcome.",
	}, []string{"flow", "outcome"})

	PaymentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vipbot",
		Name:      "payment_events_total",
		Help:      "Payment webhook events by reconciliation outcome.",
	}, []string{"outcome"})

	StoreAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vipbot",
		Name:      "store_attempts_total",
		Help:      "Record store attempts by operation and result.",
	}, []string{"op", "result"})
)

package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

var (
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courseapp",
		Name:      "deliveries_total",
		Help:      "Out-of-band notification deliveries by channel and result.",
	}, []string{"channel", "result"})

	outboxDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "courseapp",
		Name:      "outbox_dropped_total",
		Help:      "Messages dropped because the outbox buffer was full or stopped.",
	})

	outboxQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courseapp",
		Name:      "outbox_queued",
		Help:      "Messages waiting in the outbox buffer.",
	})
)

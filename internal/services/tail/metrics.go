package tailsvc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ralphmc_tail_sessions_active",
		Help: "Number of live tail sessions currently open.",
	})
	metricRecordsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ralphmc_tail_records_delivered_total",
		Help: "Records delivered to tail subscribers.",
	})
	metricPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ralphmc_tail_polls_total",
		Help: "Tail polls by outcome.",
	}, []string{"outcome"})
	metricKeepalives = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ralphmc_tail_keepalives_total",
		Help: "Keepalive frames sent to tail subscribers.",
	})
)

const (
	pollOutcomeEvents = "events"
	pollOutcomeIdle   = "idle"
)

package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopwatch", Subsystem: "poll", Name: "ticks_total",
		Help: "Poll ticks per source.",
	}, []string{"source"})

	eventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopwatch", Subsystem: "poll", Name: "events_sent_total",
		Help: "Events delivered to the notification sink.",
	}, []string{"source"})

	duplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopwatch", Subsystem: "poll", Name: "duplicates_skipped_total",
		Help: "Fetched records skipped because their key was already notified.",
	}, []string{"source"})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopwatch", Subsystem: "poll", Name: "fetch_errors_total",
		Help: "Upstream fetch failures by classification.",
	}, []string{"source", "kind"})

	sendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopwatch", Subsystem: "poll", Name: "send_failures_total",
		Help: "Sink send failures; the event stays unmarked and retries.",
	}, []string{"source"})
)

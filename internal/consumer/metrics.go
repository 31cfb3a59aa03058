package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	projectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "event_log",
		Name:      "events_projected_total",
		Help:      "App events handled, by topic, event type and aggregate.",
	}, []string{"topic", "event_type", "aggregate_type"})

	duplicateCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "event_log",
		Name:      "duplicate_events_total",
		Help:      "Redelivered events already present in app_event_log.",
	}, []string{"topic"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "event_log",
		Name:      "handler_errors_total",
		Help:      "Handler failures; the offset is not committed and the event is retried.",
	}, []string{"topic", "event_type"})

	decodeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "event_log",
		Name:      "decode_errors_total",
		Help:      "Records skipped because the envelope or headers were malformed.",
	}, []string{"topic"})

	eventAgeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gymfit",
		Subsystem: "event_log",
		Name:      "last_event_occurred_timestamp_seconds",
		Help:      "occurred_at of the latest projected event per topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(projectedCounter, duplicateCounter, handlerErrorCounter, decodeErrorCounter, eventAgeGauge)
}

func recordProcessed(msg Message) {
	projectedCounter.WithLabelValues(msg.Topic, msg.EventType, msg.AggregateType).Inc()
	if occurred := msg.Envelope.OccurredAt; !occurred.IsZero() {
		eventAgeGauge.WithLabelValues(msg.Topic).Set(float64(occurred.Unix()))
	}
}

func recordDuplicate(msg Message) {
	duplicateCounter.WithLabelValues(msg.Topic).Inc()
}

func recordHandlerError(msg Message) {
	handlerErrorCounter.WithLabelValues(msg.Topic, msg.EventType).Inc()
}

func recordDecodeError(topic string) {
	decodeErrorCounter.WithLabelValues(topic).Inc()
}

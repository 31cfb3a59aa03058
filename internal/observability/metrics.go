package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	actionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "store",
		Name:      "actions_total",
		Help:      "Number of store actions applied, labeled by action.",
	}, []string{"action"})

	repliesDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "chat",
		Name:      "replies_delivered_total",
		Help:      "Simulated replies appended to a conversation, labeled by channel.",
	}, []string{"channel"})

	repliesCancelled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "chat",
		Name:      "replies_cancelled_total",
		Help:      "Pending simulated replies cancelled before delivery, labeled by channel.",
	}, []string{"channel"})

	publishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymfit",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Events that could not be handed to the publisher, labeled by event type.",
	}, []string{"event_type"})

	workoutCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gymfit",
		Subsystem: "store",
		Name:      "last_workout_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed workout.",
	})
)

func init() {
	prometheus.MustRegister(actionCounter, repliesDelivered, repliesCancelled, publishFailures, workoutCompletedGauge)
}

// RecordAction counts one applied store action.
func RecordAction(action string) {
	actionCounter.WithLabelValues(action).Inc()
}

// RecordReplyDelivered counts one simulated reply for channel ("trainer" or "coach").
func RecordReplyDelivered(channel string) {
	repliesDelivered.WithLabelValues(channel).Inc()
}

// RecordRepliesCancelled counts n cancelled replies for channel.
func RecordRepliesCancelled(channel string, n int) {
	if n <= 0 {
		return
	}
	repliesCancelled.WithLabelValues(channel).Add(float64(n))
}

// RecordPublishFailure counts an event that failed to publish.
func RecordPublishFailure(eventType string) {
	publishFailures.WithLabelValues(eventType).Inc()
}

// RecordWorkoutCompleted updates the workout watermark gauge.
func RecordWorkoutCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutCompletedGauge.Set(float64(ts.Unix()))
}

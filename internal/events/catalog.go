package events

import "fmt"

// Topics the events are routed to.
const (
	TopicClassEvents    = "gymfit_class_events"
	TopicChatEvents     = "gymfit_chat_events"
	TopicProgressEvents = "gymfit_progress_events"
)

// Route describes where an event type is delivered.
type Route struct {
	Topic          string
	PartitionKeyFn func(Envelope) string
}

func byAggregate(e Envelope) string {
	return fmt.Sprintf("%s:%s", e.AggregateType, e.AggregateID)
}

var catalog = map[string]Route{
	TypeClassBooked:        {Topic: TopicClassEvents, PartitionKeyFn: byAggregate},
	TypeClassUnbooked:      {Topic: TopicClassEvents, PartitionKeyFn: byAggregate},
	TypeMessageSent:        {Topic: TopicChatEvents, PartitionKeyFn: byAggregate},
	TypeMessageReplied:     {Topic: TopicChatEvents, PartitionKeyFn: byAggregate},
	TypeChallengeCompleted: {Topic: TopicProgressEvents, PartitionKeyFn: byAggregate},
	TypeWorkoutStarted:     {Topic: TopicProgressEvents, PartitionKeyFn: byAggregate},
	TypeWorkoutCompleted:   {Topic: TopicProgressEvents, PartitionKeyFn: byAggregate},
	TypeThemeToggled:       {Topic: TopicProgressEvents, PartitionKeyFn: byAggregate},
}

// RouteFor resolves the delivery route for an event type.
func RouteFor(eventType string) (Route, error) {
	route, ok := catalog[eventType]
	if !ok {
		return Route{}, fmt.Errorf("unknown event type: %s", eventType)
	}
	return route, nil
}

// Topics lists every topic the catalog routes to.
func Topics() []string {
	return []string{TopicClassEvents, TopicChatEvents, TopicProgressEvents}
}

package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

// KafkaPublisher writes envelopes straight to Kafka without the outbox.
// It is used when Kafka is configured but Postgres is not.
type KafkaPublisher struct {
	producer messageWriter
}

// NewKafkaPublisher constructs a KafkaPublisher over producer.
func NewKafkaPublisher(producer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish routes the envelope and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, envelope events.Envelope) error {
	route, err := events.RouteFor(envelope.EventType)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := Message{
		EnvelopeID:    envelope.EventID,
		AggregateType: envelope.AggregateType,
		AggregateID:   envelope.AggregateID,
		EventType:     envelope.EventType,
		Topic:         route.Topic,
		PartitionKey:  route.PartitionKeyFn(envelope),
		Payload:       body,
	}
	if err := p.producer.WriteMessages(ctx, msg.Topic, msg.record(time.Now())); err != nil {
		failedCounter.Inc()
		return fmt.Errorf("publish %s: %w", envelope.EventType, err)
	}
	deliveredCounter.Inc()
	return nil
}

package outbox

import (
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka header keys set on every delivered record.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderEventID       = "event_id"
	HeaderContentType   = "content-type"
)

// Message represents a row fetched from outbox.
type Message struct {
	EventID       int64
	EnvelopeID    string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	PartitionKey  string
	Payload       json.RawMessage
	// RetryCount is the number of times the event was replayed from the DLQ.
	RetryCount int
}

func (m Message) record(now time.Time) kafka.Message {
	return kafka.Message{
		Key:   []byte(m.PartitionKey),
		Value: []byte(m.Payload),
		Time:  now.UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(m.EventType)},
			{Key: HeaderAggregateType, Value: []byte(m.AggregateType)},
			{Key: HeaderEventID, Value: []byte(m.EnvelopeID)},
			{Key: HeaderContentType, Value: []byte("application/json")},
		},
	}
}

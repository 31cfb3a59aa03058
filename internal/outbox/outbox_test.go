package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

type stubProducer struct {
	mu     sync.Mutex
	err    error
	writes []writtenBatch
}

type writtenBatch struct {
	topic    string
	messages []kafka.Message
}

func (s *stubProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	copied := make([]kafka.Message, len(msgs))
	copy(copied, msgs)
	s.writes = append(s.writes, writtenBatch{topic: topic, messages: copied})
	return nil
}

type stubExec struct {
	sql  string
	args []any
	err  error
}

func (s *stubExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.sql = sql
	s.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), s.err
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func newEnvelope(t *testing.T, eventType string) events.Envelope {
	t.Helper()
	env, err := events.New(eventType, "class", "3", time.Now(), events.ClassBooking{ClassID: 3, IsBooked: true})
	require.NoError(t, err)
	return env
}

func TestWriterInsertsRoutedEnvelope(t *testing.T) {
	db := &stubExec{}
	env := newEnvelope(t, events.TypeClassBooked)

	before := testutil.ToFloat64(enqueuedCounter.WithLabelValues(events.TopicClassEvents))
	require.NoError(t, NewWriter(db).Publish(context.Background(), env))

	require.Contains(t, db.sql, "INSERT INTO outbox")
	require.Equal(t, env.EventID, db.args[0])
	require.Equal(t, events.TopicClassEvents, db.args[4])
	require.Equal(t, "class:3", db.args[5])

	var stored events.Envelope
	require.NoError(t, json.Unmarshal(db.args[6].([]byte), &stored))
	require.Equal(t, env.EventID, stored.EventID)
	require.InDelta(t, before+1, testutil.ToFloat64(enqueuedCounter.WithLabelValues(events.TopicClassEvents)), 0.0001)
}

func TestWriterRejectsUnknownTypeAndWrapsErrors(t *testing.T) {
	db := &stubExec{}
	env := newEnvelope(t, events.TypeClassBooked)
	env.EventType = "class.cancelled"
	require.Error(t, NewWriter(db).Publish(context.Background(), env))
	require.Empty(t, db.sql)

	db.err = errors.New("connection reset")
	err := NewWriter(db).Publish(context.Background(), newEnvelope(t, events.TypeClassBooked))
	require.ErrorIs(t, err, db.err)
}

func TestDeliverGroupsByTopicWithHeaders(t *testing.T) {
	producer := &stubProducer{}
	messages := []Message{
		{EventID: 1, EnvelopeID: "a", EventType: events.TypeClassBooked, AggregateType: "class", Topic: events.TopicClassEvents, PartitionKey: "class:1", Payload: json.RawMessage(`{}`)},
		{EventID: 2, EnvelopeID: "b", EventType: events.TypeMessageSent, AggregateType: "trainer", Topic: events.TopicChatEvents, PartitionKey: "trainer:1", Payload: json.RawMessage(`{}`)},
		{EventID: 3, EnvelopeID: "c", EventType: events.TypeClassUnbooked, AggregateType: "class", Topic: events.TopicClassEvents, PartitionKey: "class:1", Payload: json.RawMessage(`{}`)},
	}

	require.NoError(t, deliver(context.Background(), producer, messages))
	require.Len(t, producer.writes, 2)
	require.Equal(t, events.TopicClassEvents, producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 2)
	require.Equal(t, events.TopicChatEvents, producer.writes[1].topic)

	first := producer.writes[0].messages[0]
	require.Equal(t, "class:1", string(first.Key))
	require.Equal(t, events.TypeClassBooked, headerValue(first, HeaderEventType))
	require.Equal(t, "class", headerValue(first, HeaderAggregateType))
	require.Equal(t, "a", headerValue(first, HeaderEventID))
	require.Equal(t, events.TypeClassUnbooked, headerValue(producer.writes[0].messages[1], HeaderEventType))
}

func TestDeliverFailsWithoutTopic(t *testing.T) {
	producer := &stubProducer{}
	err := deliver(context.Background(), producer, []Message{{EventType: "mystery"}})
	require.ErrorContains(t, err, "no topic for event_type=mystery")
	require.Empty(t, producer.writes)
}

func TestKafkaPublisher(t *testing.T) {
	producer := &stubProducer{}
	pub := NewKafkaPublisher(producer)
	env := newEnvelope(t, events.TypeClassBooked)

	require.NoError(t, pub.Publish(context.Background(), env))
	require.Len(t, producer.writes, 1)
	record := producer.writes[0].messages[0]
	require.Equal(t, env.EventID, headerValue(record, HeaderEventID))

	var decoded events.Envelope
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	require.Equal(t, env.EventType, decoded.EventType)

	producer.err = errors.New("broker unavailable")
	before := testutil.ToFloat64(failedCounter)
	require.ErrorIs(t, pub.Publish(context.Background(), env), producer.err)
	require.InDelta(t, before+1, testutil.ToFloat64(failedCounter), 0.0001)
}

func TestBackoffDelay(t *testing.T) {
	m := NewDLQManager(nil, 0, 0, nil)
	require.Equal(t, 5, m.maxRetries)
	require.Equal(t, time.Minute, m.backoffDelay(1))
	require.Equal(t, 4*time.Minute, m.backoffDelay(3))
	require.Equal(t, time.Hour, m.backoffDelay(10))
	require.Equal(t, time.Hour, m.backoffDelay(64))
}

func TestKafkaProducerRejectsWritesAfterClose(t *testing.T) {
	producer := NewKafkaProducer([]string{"localhost:9092"})
	require.NoError(t, producer.Close())

	err := producer.WriteMessages(context.Background(), "gymfit_class_events", kafka.Message{Value: []byte("{}")})
	require.ErrorContains(t, err, "closed")
}

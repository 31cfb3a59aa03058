package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, nil))
}

func envelopeRecord(t *testing.T, eventType string, offset int64) (kafka.Message, events.Envelope) {
	t.Helper()
	env, err := events.New(eventType, "trainer", "2", time.Now(), events.ChatMessage{MessageID: "m1", TrainerID: 2, IsUser: true, Text: "hi"})
	require.NoError(t, err)
	value, err := json.Marshal(env)
	require.NoError(t, err)

	return kafka.Message{
		Topic:     events.TopicChatEvents,
		Partition: 0,
		Offset:    offset,
		Time:      time.Now().UTC(),
		Value:     value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "aggregate_type", Value: []byte("trainer")},
		},
	}, env
}

func TestProcessorCommitsOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg, env := envelopeRecord(t, events.TypeMessageSent, 10)
	reader := &stubReader{messages: []kafka.Message{msg}, after: contextCanceled}
	handler := &stubHandler{}

	before := testutil.ToFloat64(projectedCounter.WithLabelValues(events.TopicChatEvents, events.TypeMessageSent, "trainer"))
	err := NewProcessor(reader, handler, WithLogger(testLogger(t))).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, events.TypeMessageSent, handler.last.EventType)
	require.Equal(t, "trainer", handler.last.AggregateType)
	require.Equal(t, env.EventID, handler.last.Envelope.EventID)
	require.JSONEq(t, string(env.Payload), string(handler.last.Envelope.Payload))
	require.InDelta(t, before+1, testutil.ToFloat64(projectedCounter.WithLabelValues(events.TopicChatEvents, events.TypeMessageSent, "trainer")), 0.0001)
}

func TestProcessorRetriesHandlerErrorBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failing, env := envelopeRecord(t, events.TypeMessageReplied, 20)
	next, _ := envelopeRecord(t, events.TypeMessageSent, 21)
	reader := &stubReader{messages: []kafka.Message{failing, next}, after: contextCanceled}
	handler := &stubHandler{err: errors.New("boom"), failures: 2}

	err := NewProcessor(reader, handler, WithLogger(testLogger(t)), WithRetryDelay(time.Millisecond)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 4, handler.calls)
	require.Equal(t, env.EventID, handler.seen[0])
	require.Equal(t, env.EventID, handler.seen[2])
	require.Equal(t, []int64{20, 21}, reader.committed)
}

func TestProcessorStopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failing, _ := envelopeRecord(t, events.TypeMessageReplied, 30)
	next, _ := envelopeRecord(t, events.TypeMessageSent, 31)
	reader := &stubReader{messages: []kafka.Message{failing, next}, after: contextCanceled}
	handler := &stubHandler{err: errors.New("boom"), onCall: func(calls int) {
		if calls == 3 {
			cancel()
		}
	}}

	err := NewProcessor(reader, handler, WithLogger(testLogger(t)), WithRetryDelay(time.Millisecond)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 3, handler.calls)
	require.Equal(t, 1, reader.index, "the next record is not fetched while one is failing")
	require.Empty(t, reader.committed)
}

func TestProcessorCommitsMalformedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, _ := envelopeRecord(t, events.TypeMessageSent, 1)
	noHeader := good
	noHeader.Headers = nil
	mismatch := good
	mismatch.Headers = []kafka.Header{{Key: "event_type", Value: []byte(events.TypeClassBooked)}}
	garbage := good
	garbage.Value = []byte("not json")

	reader := &stubReader{messages: []kafka.Message{noHeader, mismatch, garbage}, after: contextCanceled}
	handler := &stubHandler{}

	before := testutil.ToFloat64(decodeErrorCounter.WithLabelValues(events.TopicChatEvents))
	err := NewProcessor(reader, handler, WithLogger(testLogger(t))).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Zero(t, handler.calls)
	require.Equal(t, 3, reader.commitCalls)
	require.InDelta(t, before+3, testutil.ToFloat64(decodeErrorCounter.WithLabelValues(events.TopicChatEvents)), 0.0001)
}

func TestDecodeRejectsMisroutedEvents(t *testing.T) {
	msg, _ := envelopeRecord(t, events.TypeMessageSent, 4)
	msg.Topic = events.TopicClassEvents
	_, err := decodeMessage(msg)
	require.ErrorContains(t, err, "does not belong on topic")
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := LogHandler{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	msg, env := envelopeRecord(t, events.TypeMessageSent, 3)
	decoded, err := decodeMessage(msg)
	require.NoError(t, err)
	require.NoError(t, handler.Handle(context.Background(), decoded))
	require.Contains(t, buf.String(), env.EventID)
	require.Contains(t, buf.String(), `"aggregate":"trainer:2"`)
}

type stubReader struct {
	messages    []kafka.Message
	index       int
	commitCalls int
	committed   []int64
	after       func() error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.index >= len(r.messages) {
		if r.after != nil {
			return kafka.Message{}, r.after()
		}
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.commitCalls++
	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}
	return nil
}

func (r *stubReader) Close() error { return nil }

func contextCanceled() error { return context.Canceled }

// stubHandler returns err on its first failures calls, or on every call
// when failures is zero.
type stubHandler struct {
	calls    int
	err      error
	failures int
	last     Message
	seen     []string
	onCall   func(calls int)
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	h.seen = append(h.seen, msg.Envelope.EventID)
	if h.onCall != nil {
		h.onCall(h.calls)
	}
	if h.failures > 0 && h.calls > h.failures {
		return nil
	}
	return h.err
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}

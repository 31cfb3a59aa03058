// Package consumer reads GymFit events back from Kafka and hands them to a
// Handler, committing offsets only after the handler succeeds. A failing
// record is retried in place so no later commit can skip it.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(context.Context, Message) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Message is the decoded representation of a Kafka record emitted by the outbox dispatcher.
type Message struct {
	Topic         string
	Partition     int
	Offset        int64
	Timestamp     time.Time
	EventType     string
	AggregateType string
	Envelope      events.Envelope
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithRetryDelay sets the pause between handler retries of one record.
func WithRetryDelay(d time.Duration) Option {
	return func(p *Processor) {
		if d > 0 {
			p.retryDelay = d
		}
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader     Reader
	handler    Handler
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:     reader,
		handler:    handler,
		logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("component", "consumer")),
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

const (
	fetchRetryDelay   = 500 * time.Millisecond
	defaultRetryDelay = time.Second
)

// Run starts a blocking loop that processes Kafka messages until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.ErrorContext(ctx, "fetch error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		event, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.WarnContext(ctx, "decode error",
				slog.String("topic", msg.Topic),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Any("error", decodeErr),
			)
			recordDecodeError(msg.Topic)
			// Malformed records are committed so they cannot block the partition.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.ErrorContext(ctx, "commit error after decode failure", slog.Any("error", commitErr))
			}
			continue
		}

		if err := p.handle(ctx, event); err != nil {
			return err
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.ErrorContext(ctx, "commit error", slog.Any("error", commitErr))
		} else {
			recordProcessed(event)
		}
	}
}

// handle retries the handler on the same record until it succeeds or ctx is
// done. Moving on would let a later commit advance past the failed offset.
func (p *Processor) handle(ctx context.Context, event Message) error {
	for {
		handleErr := p.handler.Handle(ctx, event)
		if handleErr == nil {
			return nil
		}
		p.logger.ErrorContext(ctx, "handler error, retrying",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.Envelope.EventID),
			slog.Int64("offset", event.Offset),
			slog.Any("error", handleErr),
		)
		recordHandlerError(event)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryDelay):
		}
	}
}

func decodeMessage(msg kafka.Message) (Message, error) {
	if len(msg.Value) == 0 {
		return Message{}, errors.New("empty payload")
	}

	eventType, ok := headerValue(msg, "event_type")
	if !ok {
		return Message{}, errors.New("missing event_type header")
	}
	aggregateType, _ := headerValue(msg, "aggregate_type")

	var envelope events.Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.EventID == "" {
		return Message{}, errors.New("envelope without event_id")
	}
	if envelope.EventType != string(eventType) {
		return Message{}, fmt.Errorf("event_type header %q does not match envelope %q", eventType, envelope.EventType)
	}
	route, err := events.RouteFor(envelope.EventType)
	if err != nil {
		return Message{}, err
	}
	if route.Topic != msg.Topic {
		return Message{}, fmt.Errorf("%s does not belong on topic %s", envelope.EventType, msg.Topic)
	}

	return Message{
		Topic:         msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Timestamp:     msg.Time,
		EventType:     string(eventType),
		AggregateType: string(aggregateType),
		Envelope:      envelope,
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}

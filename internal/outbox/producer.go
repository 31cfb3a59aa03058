package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerOption configures a KafkaProducer.
type ProducerOption func(*KafkaProducer)

// WithProducerLogger routes kafka-go writer errors into logger.
func WithProducerLogger(logger *slog.Logger) ProducerOption {
	return func(p *KafkaProducer) { p.logger = logger }
}

// WithBatchTimeout sets how long a writer waits to fill a batch.
func WithBatchTimeout(d time.Duration) ProducerOption {
	return func(p *KafkaProducer) { p.batchTimeout = d }
}

// KafkaProducer keeps one writer per GymFit topic, created on first use.
// Messages are spread over partitions by key, so every event of one
// aggregate lands on the same partition.
type KafkaProducer struct {
	brokers      []string
	batchTimeout time.Duration
	logger       *slog.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  bool
}

// NewKafkaProducer creates a KafkaProducer for brokers.
func NewKafkaProducer(brokers []string, opts ...ProducerOption) *KafkaProducer {
	p := &KafkaProducer{
		brokers:      brokers,
		batchTimeout: 10 * time.Millisecond,
		writers:      make(map[string]*kafka.Writer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WriteMessages writes msgs to topic.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	writer, err := p.writerForTopic(topic)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) writerForTopic(topic string) (*kafka.Writer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errors.New("kafka producer closed")
	}
	if writer, ok := p.writers[topic]; ok {
		return writer, nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		BatchTimeout:           p.batchTimeout,
		AllowAutoTopicCreation: true,
	}
	if p.logger != nil {
		logger := p.logger.With(slog.String("topic", topic))
		writer.ErrorLogger = kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...))
		})
	}
	p.writers[topic] = writer
	return writer, nil
}

// Close flushes and releases every writer. Later writes fail.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	var err error
	for topic, writer := range p.writers {
		if closeErr := writer.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close %s writer: %w", topic, closeErr))
		}
		delete(p.writers, topic)
	}
	return err
}

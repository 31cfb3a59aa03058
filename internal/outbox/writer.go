// Package outbox persists state-change events and delivers them to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Writer records envelopes in the outbox table for the Dispatcher to drain.
type Writer struct {
	db execer
}

// NewWriter constructs a Writer over a pool or transaction.
func NewWriter(db execer) *Writer {
	return &Writer{db: db}
}

// Publish inserts the envelope into the outbox. Envelopes are keyed by
// their event id, so a repeated publish is ignored.
func (w *Writer) Publish(ctx context.Context, envelope events.Envelope) error {
	route, err := events.RouteFor(envelope.EventType)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	const stmt = `INSERT INTO outbox (envelope_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (envelope_id) DO NOTHING`

	if _, err := w.db.Exec(ctx, stmt,
		envelope.EventID,
		envelope.AggregateType,
		envelope.AggregateID,
		envelope.EventType,
		route.Topic,
		route.PartitionKeyFn(envelope),
		body,
	); err != nil {
		return fmt.Errorf("insert outbox %s: %w", envelope.EventType, err)
	}
	enqueuedCounter.WithLabelValues(route.Topic).Inc()
	return nil
}

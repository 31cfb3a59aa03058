package consumer

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PersistenceHandler writes consumed events into the app_event_log table.
type PersistenceHandler struct {
	pool *pgxpool.Pool
}

// NewPersistenceHandler constructs a handler backed by the provided pool.
func NewPersistenceHandler(pool *pgxpool.Pool) *PersistenceHandler {
	return &PersistenceHandler{pool: pool}
}

// Handle stores the event. Redelivered events are ignored by event id.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	env := msg.Envelope
	tag, err := h.pool.Exec(ctx,
		`INSERT INTO app_event_log (event_id, event_type, aggregate_type, aggregate_id, occurred_at, payload, topic, kafka_partition, kafka_offset)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
         ON CONFLICT (event_id) DO NOTHING`,
		env.EventID,
		env.EventType,
		env.AggregateType,
		env.AggregateID,
		env.OccurredAt,
		[]byte(env.Payload),
		msg.Topic,
		msg.Partition,
		msg.Offset,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		recordDuplicate(msg)
	}
	return nil
}

// LogHandler records consumed events in the structured log. It backs the
// consumer when no database is configured.
type LogHandler struct {
	Logger *slog.Logger
}

// Handle logs the event.
func (h LogHandler) Handle(ctx context.Context, msg Message) error {
	h.Logger.InfoContext(ctx, "event consumed",
		slog.String("topic", msg.Topic),
		slog.String("event_type", msg.EventType),
		slog.String("event_id", msg.Envelope.EventID),
		slog.String("aggregate", msg.Envelope.AggregateType+":"+msg.Envelope.AggregateID),
		slog.Int64("offset", msg.Offset),
	)
	return nil
}

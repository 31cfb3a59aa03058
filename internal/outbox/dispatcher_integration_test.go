//go:build integration

package outbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

func TestDispatcherPublishesMessages(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	writer := NewWriter(pool)
	require.NoError(t, writer.Publish(ctx, newEnvelope(t, events.TypeClassBooked)))
	duplicate := newEnvelope(t, events.TypeClassUnbooked)
	require.NoError(t, writer.Publish(ctx, duplicate))
	require.NoError(t, writer.Publish(ctx, duplicate))

	producer := &stubProducer{}
	dispatcher := NewDispatcher(pool, producer, 10*time.Millisecond, 5, nil)

	beforeDelivered := testutil.ToFloat64(deliveredCounter)
	beforeHistogram := histogramSampleCount(t)

	require.NoError(t, dispatcher.processBatch(ctx))

	require.Len(t, producer.writes, 1)
	require.Equal(t, events.TopicClassEvents, producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 2)
	require.Equal(t, events.TypeClassBooked, headerValue(producer.writes[0].messages[0], HeaderEventType))

	require.InDelta(t, beforeDelivered+2, testutil.ToFloat64(deliveredCounter), 0.0001)
	require.Greater(t, histogramSampleCount(t), beforeHistogram)

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 2, published)

	require.NoError(t, dispatcher.processBatch(ctx))
	require.Len(t, producer.writes, 1, "published rows are not delivered twice")
}

func TestDispatcherRoutesMessagesToDLQOnFailure(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	env := newEnvelope(t, events.TypeClassBooked)
	require.NoError(t, NewWriter(pool).Publish(ctx, env))

	producer := &stubProducer{err: errors.New("kafka write failed")}
	dispatcher := NewDispatcher(pool, producer, 10*time.Millisecond, 5, nil)

	beforeFailed := testutil.ToFloat64(failedCounter)
	beforeDLQ := testutil.ToFloat64(dlqCounter.WithLabelValues(events.TopicClassEvents))

	require.NoError(t, dispatcher.processBatch(ctx))

	require.InDelta(t, beforeFailed+1, testutil.ToFloat64(failedCounter), 0.0001)
	require.InDelta(t, beforeDLQ+1, testutil.ToFloat64(dlqCounter.WithLabelValues(events.TopicClassEvents)), 0.0001)

	var dlqCount int
	var reason string
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*), MAX(reason) FROM outbox_dlq WHERE envelope_id = $1`, env.EventID).Scan(&dlqCount, &reason))
	require.Equal(t, 1, dlqCount)
	require.Contains(t, reason, "kafka write failed")

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 1, published)
}

func TestDLQManagerRequeuesAndQuarantines(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	env := newEnvelope(t, events.TypeWorkoutCompleted)
	require.NoError(t, NewWriter(pool).Publish(ctx, env))
	failing := NewDispatcher(pool, &stubProducer{err: errors.New("boom")}, 10*time.Millisecond, 5, nil)
	require.NoError(t, failing.processBatch(ctx))

	manager := NewDLQManager(pool, 1, time.Second, nil)
	processed, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	var pending int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending))
	require.Equal(t, 1, pending)

	producer := &stubProducer{}
	require.NoError(t, NewDispatcher(pool, producer, 10*time.Millisecond, 5, nil).processBatch(ctx))
	require.Len(t, producer.writes, 1)
	require.Equal(t, env.EventID, headerValue(producer.writes[0].messages[0], HeaderEventID))

	_, err = pool.Exec(ctx,
		`INSERT INTO outbox_dlq (event_id, envelope_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, partition_key, retry_count)
         VALUES (99, gen_random_uuid(), 'class.booked', 'gymfit_class_events', '{}', 'stuck', 'class', '1', 'class:1', 3)`)
	require.NoError(t, err)

	processed, err = manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	var quarantined int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_dlq WHERE quarantined_at IS NOT NULL`).Scan(&quarantined))
	require.Equal(t, 1, quarantined)
}

func TestDLQRetryCountSurvivesReplayUntilQuarantine(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	env := newEnvelope(t, events.TypeClassBooked)
	require.NoError(t, NewWriter(pool).Publish(ctx, env))

	failing := NewDispatcher(pool, &stubProducer{err: errors.New("broker down")}, 10*time.Millisecond, 5, nil)
	manager := NewDLQManager(pool, 2, time.Second, nil)

	for attempt := 0; attempt < 2; attempt++ {
		require.NoError(t, failing.processBatch(ctx))

		var retryCount int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT retry_count FROM outbox_dlq WHERE envelope_id = $1 AND quarantined_at IS NULL`, env.EventID).Scan(&retryCount))
		require.Equal(t, attempt, retryCount)

		processed, err := manager.RunOnce(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, 1, processed)

		var outboxRetries int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT retry_count FROM outbox WHERE envelope_id = $1 AND published_at IS NULL`, env.EventID).Scan(&outboxRetries))
		require.Equal(t, attempt+1, outboxRetries)
	}

	require.NoError(t, failing.processBatch(ctx))
	processed, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	var quarantined, pending int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox_dlq WHERE envelope_id = $1 AND quarantined_at IS NOT NULL AND retry_count = 2`, env.EventID).Scan(&quarantined))
	require.Equal(t, 1, quarantined)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending))
	require.Zero(t, pending, "quarantined events are not replayed again")
}

func setupPostgres(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("gymfit"),
		postgrescontainer.WithUsername("gymfit"),
		postgrescontainer.WithPassword("gymfit"),
	)
	require.NoError(t, err)

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pg.Terminate(ctx)
	}
	return pool, cleanup
}

func histogramSampleCount(t *testing.T) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, batchDuration.Write(metric))
	hist := metric.GetHistogram()
	require.NotNil(t, hist)
	return hist.GetSampleCount()
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	migrationsDir := resolvePath(t, "../../db/migrations")
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "expected at least one migration .up.sql file")

	sort.Strings(files)
	for _, file := range files {
		contents, readErr := os.ReadFile(file)
		require.NoErrorf(t, readErr, "read migration %s", file)
		_, execErr := pool.Exec(ctx, string(contents))
		require.NoErrorf(t, execErr, "execute migration %s", file)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

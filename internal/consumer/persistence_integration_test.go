//go:build integration

package consumer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Zeyad-Azima/GymFit/internal/events"
)

func TestPersistenceHandlerIsIdempotent(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("gymfit"),
		postgrescontainer.WithUsername("gymfit"),
		postgrescontainer.WithPassword("gymfit"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, connStr)
		if err != nil {
			return false
		}
		if pool.Ping(ctx) != nil {
			pool.Close()
			return false
		}
		return true
	}, 30*time.Second, time.Second)
	defer pool.Close()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	files, err := filepath.Glob(filepath.Join(filepath.Dir(file), "../../db/migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)
	for _, f := range files {
		contents, readErr := os.ReadFile(f)
		require.NoError(t, readErr)
		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}

	record, env := envelopeRecord(t, events.TypeMessageSent, 7)
	msg, err := decodeMessage(record)
	require.NoError(t, err)

	handler := NewPersistenceHandler(pool)
	dupesBefore := testutil.ToFloat64(duplicateCounter.WithLabelValues(msg.Topic))
	require.NoError(t, handler.Handle(ctx, msg))
	require.NoError(t, handler.Handle(ctx, msg))
	require.InDelta(t, dupesBefore+1, testutil.ToFloat64(duplicateCounter.WithLabelValues(msg.Topic)), 0.0001)

	var count int
	var offset int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*), MAX(kafka_offset) FROM app_event_log WHERE event_id = $1`, env.EventID).Scan(&count, &offset))
	require.Equal(t, 1, count)
	require.Equal(t, int64(7), offset)
}

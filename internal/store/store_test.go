package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/types"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), SnapshotFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strp(s string) *string { return &s }

func TestUpsertRecordsKeepsLatest(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	seen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := domain.CanonicalRecord{
		ExternalID:        "A-1",
		SourceSystem:      "state_tx_esbd",
		JurisdictionLevel: "state",
		JurisdictionState: "TX",
		Title:             "Alpha",
		Agency:            strp("601"),
		URL:               "https://www.txsmartbuy.gov/esbd/A-1",
		Attachments:       []domain.Attachment{{URL: "https://www.txsmartbuy.gov/a.pdf"}},
		Slug:              "tx-a-1-alpha",
	}
	n, err := UpsertRecords(ctx, db.Pool, []domain.CanonicalRecord{rec}, seen)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rec.Title = "Alpha (amended)"
	rec.Attachments = nil
	_, err = UpsertRecords(ctx, db.Pool, []domain.CanonicalRecord{rec}, seen.Add(time.Hour))
	require.NoError(t, err)

	count, err := CountRecords(ctx, db.Pool)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, ok, err := GetRecord(ctx, db.Pool, "A-1", "state_tx_esbd")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)

	_, ok, err = GetRecord(ctx, db.Pool, "A-1", "other")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	st := types.RunStats{StartedAt: time.Now(), Pages: 2, Listings: 40, Enriched: 9, DetailFailures: 1}
	require.NoError(t, RecordRun(ctx, db.Pool, st, 38, "rest:ok 201"))

	var pages, written int
	var status string
	require.NoError(t, db.Pool.QueryRowContext(ctx,
		`SELECT pages, written, sink_status FROM runs ORDER BY id DESC LIMIT 1;`).Scan(&pages, &written, &status))
	require.Equal(t, 2, pages)
	require.Equal(t, 38, written)
	require.Equal(t, "rest:ok 201", status)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	require.Equal(t, 1, v)
}

func TestOpenAppliesSnapshotPragmas(t *testing.T) {
	db := openTemp(t)

	var mode string
	require.NoError(t, db.Pool.QueryRow(`PRAGMA journal_mode;`).Scan(&mode))
	require.Equal(t, "wal", mode)

	var busy int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA busy_timeout;`).Scan(&busy))
	require.Equal(t, 5000, busy)
}

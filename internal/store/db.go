package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// SnapshotFile is the database name inside run.data_dir.
const SnapshotFile = "esbd.db"

// DB is the local snapshot of the latest canonical records and the run log.
type DB struct {
	Pool *sql.DB
}

// snapshotPragmas apply to every connection. WAL lets a reader (sqlite3 CLI,
// a dashboard) look at the snapshot while a run is writing it.
var snapshotPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

func snapshotDSN(path string) string {
	q := url.Values{}
	for _, p := range snapshotPragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the snapshot at path and brings its schema
// to the current user_version.
func Open(ctx context.Context, path string) (*DB, error) {
	pool, err := sql.Open("sqlite", snapshotDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	// one writer; runs are sequential anyway
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxIdleTime(time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}

	if err := Migrate(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate snapshot %s: %w", path, err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

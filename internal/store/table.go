package store

import (
	"database/sql"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS records (
  external_id TEXT NOT NULL,
  source_system TEXT NOT NULL,
  jurisdiction_level TEXT NOT NULL,
  jurisdiction_state TEXT NOT NULL,
  title TEXT NOT NULL,
  agency TEXT,
  posted_date TEXT,
  response_deadline TEXT,
  url TEXT NOT NULL,
  description TEXT,
  attachments TEXT,
  slug TEXT NOT NULL,
  seen_at TEXT NOT NULL,
  PRIMARY KEY (external_id, source_system)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  started_at TEXT NOT NULL,
  pages INTEGER NOT NULL,
  listings INTEGER NOT NULL,
  enriched INTEGER NOT NULL,
  detail_failures INTEGER NOT NULL,
  written INTEGER NOT NULL,
  sink_status TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_records_response_deadline
ON records(response_deadline);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

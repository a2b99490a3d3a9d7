package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/types"
)

// UpsertRecords keeps the latest copy of each record, keyed by
// (external_id, source_system).
func UpsertRecords(ctx context.Context, db *sql.DB, recs []domain.CanonicalRecord, seenAt time.Time) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (external_id, source_system, jurisdiction_level, jurisdiction_state, title, agency,
  posted_date, response_deadline, url, description, attachments, slug, seen_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (external_id, source_system) DO UPDATE SET
  jurisdiction_level = excluded.jurisdiction_level,
  jurisdiction_state = excluded.jurisdiction_state,
  title = excluded.title,
  agency = excluded.agency,
  posted_date = excluded.posted_date,
  response_deadline = excluded.response_deadline,
  url = excluded.url,
  description = excluded.description,
  attachments = excluded.attachments,
  slug = excluded.slug,
  seen_at = excluded.seen_at;`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	seen := seenAt.UTC().Format(time.RFC3339)
	for _, r := range recs {
		var attachments sql.NullString
		if r.Attachments != nil {
			b, err := json.Marshal(r.Attachments)
			if err != nil {
				return 0, fmt.Errorf("encode attachments %s: %w", r.ExternalID, err)
			}
			attachments = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			r.ExternalID,
			r.SourceSystem,
			r.JurisdictionLevel,
			r.JurisdictionState,
			r.Title,
			r.Agency,
			r.PostedDate,
			r.ResponseDeadline,
			r.URL,
			r.Description,
			attachments,
			r.Slug,
			seen,
		); err != nil {
			return 0, fmt.Errorf("upsert record %s: %w", r.ExternalID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// GetRecord loads one stored record; ok is false when it does not exist.
func GetRecord(ctx context.Context, db *sql.DB, externalID, sourceSystem string) (rec domain.CanonicalRecord, ok bool, err error) {
	var attachments sql.NullString
	err = db.QueryRowContext(ctx, `
SELECT external_id, source_system, jurisdiction_level, jurisdiction_state, title, agency,
  posted_date, response_deadline, url, description, attachments, slug
FROM records
WHERE external_id = ? AND source_system = ?;`, externalID, sourceSystem).Scan(
		&rec.ExternalID,
		&rec.SourceSystem,
		&rec.JurisdictionLevel,
		&rec.JurisdictionState,
		&rec.Title,
		&rec.Agency,
		&rec.PostedDate,
		&rec.ResponseDeadline,
		&rec.URL,
		&rec.Description,
		&attachments,
		&rec.Slug,
	)
	if err == sql.ErrNoRows {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	if attachments.Valid {
		if err := json.Unmarshal([]byte(attachments.String), &rec.Attachments); err != nil {
			return rec, false, fmt.Errorf("decode attachments %s: %w", externalID, err)
		}
	}
	return rec, true, nil
}

func CountRecords(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records;`).Scan(&n)
	return n, err
}

// RecordRun appends a row to the run log.
func RecordRun(ctx context.Context, db *sql.DB, st types.RunStats, written int, sinkStatus string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO runs (started_at, pages, listings, enriched, detail_failures, written, sink_status)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		st.StartedAt.UTC().Format(time.RFC3339),
		st.Pages,
		st.Listings,
		st.Enriched,
		st.DetailFailures,
		written,
		sinkStatus,
	)
	return err
}

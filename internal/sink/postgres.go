package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"esbd-engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var recordColumns = []string{
	"external_id",
	"source_system",
	"jurisdiction_level",
	"jurisdiction_state",
	"title",
	"agency",
	"posted_date",
	"response_deadline",
	"url",
	"description",
	"attachments",
	"slug",
}

// PostgresSink upserts straight into a Postgres table.
type PostgresSink struct {
	db    *pgxpool.Pool
	query string
}

func NewPostgres(ctx context.Context, dsn, table, conflictKeys string) (*PostgresSink, error) {
	if conflictKeys == "" {
		conflictKeys = DefaultConflictKeys
	}
	q, err := buildUpsertSQL(table, splitKeys(conflictKeys))
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresSink{db: db, query: q}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Close() {
	if s != nil && s.db != nil {
		s.db.Close()
	}
}

// Upsert writes all records in one transaction.
func (s *PostgresSink) Upsert(ctx context.Context, records []domain.CanonicalRecord) (Result, error) {
	if len(records) == 0 {
		return Result{}, nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range records {
		args, err := recordArgs(r)
		if err != nil {
			return Result{}, err
		}
		batch.Queue(s.query, args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return Result{}, fmt.Errorf("postgres sink batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}
	return Result{Rows: len(records)}, nil
}

func buildUpsertSQL(table string, keys []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("postgres sink: table is required")
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("postgres sink: at least one conflict key is required")
	}
	isKey := map[string]bool{}
	for _, k := range keys {
		isKey[k] = true
	}

	cols := make([]string, len(recordColumns))
	params := make([]string, len(recordColumns))
	var sets []string
	for i, c := range recordColumns {
		cols[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		if !isKey[c] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", cols[i], cols[i]))
		}
	}
	conflict := make([]string, len(keys))
	for i, k := range keys {
		conflict[i] = pgx.Identifier{k}.Sanitize()
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
		strings.Join(conflict, ", "),
		strings.Join(sets, ", "),
	), nil
}

func recordArgs(r domain.CanonicalRecord) ([]any, error) {
	var attachments []byte
	if r.Attachments != nil {
		b, err := json.Marshal(r.Attachments)
		if err != nil {
			return nil, fmt.Errorf("postgres sink encode attachments: %w", err)
		}
		attachments = b
	}
	return []any{
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
	}, nil
}

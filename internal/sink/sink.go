package sink

import (
	"context"
	"fmt"
	"strings"

	"esbd-engine/internal/domain"
)

// Upserter inserts-or-updates records keyed by conflict columns.
type Upserter interface {
	Name() string
	Upsert(ctx context.Context, records []domain.CanonicalRecord) (Result, error)
}

type Result struct {
	Status int // HTTP status for REST sinks, 0 otherwise
	Rows   int
}

// StatusError is a non-2xx answer from a REST sink.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upsert status %d: %s", e.Code, e.Body)
}

// DefaultConflictKeys matches the (external_id, source_system) unique key.
const DefaultConflictKeys = "external_id,source_system"

func splitKeys(keys string) []string {
	var out []string
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

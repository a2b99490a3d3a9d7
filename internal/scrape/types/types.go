package types

import (
	"context"
	"time"

	"esbd-engine/internal/domain"
)

// PageFetcher returns the body of the page at url.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RunStats summarizes one scrape run.
type RunStats struct {
	StartedAt      time.Time `json:"started_at"`
	Pages          int       `json:"pages"`
	Listings       int       `json:"listings"`
	Unique         int       `json:"unique"`
	Enriched       int       `json:"enriched"`
	DetailFailures int       `json:"detail_failures"`
}

type ScrapeResult struct {
	Listings []domain.EnrichedListing
	Records  []domain.CanonicalRecord
	Stats    RunStats
}

// RecordConfig is the per-run constant part of every canonical record.
type RecordConfig struct {
	SourceSystem      string
	JurisdictionLevel string
	JurisdictionState string
}

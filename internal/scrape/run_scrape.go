package scrape

import (
	"context"
	"fmt"
	"time"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/metrics"
	"esbd-engine/internal/scrape/esbd"
	"esbd-engine/internal/scrape/types"
	"esbd-engine/internal/scrape/util"

	"go.uber.org/zap"
)

type Options struct {
	Site       esbd.Site
	Pages      int           // listing pages 1..Pages
	MaxDetails int           // how many unique listings get a detail fetch
	Delay      time.Duration // pause after every fetch
	Record     types.RecordConfig
}

// Runner drives one scrape: fetch listing pages, dedupe, enrich the first
// MaxDetails listings from their detail pages, map everything to records.
//
// A listing page failure aborts the run. A detail failure only marks that
// listing with DetailError.
type Runner struct {
	fetch   types.PageFetcher
	opts    Options
	log     *zap.Logger
	metrics *metrics.Metrics
	pause   func(context.Context, time.Duration) error
}

func NewRunner(fetch types.PageFetcher, opts Options, log *zap.Logger, m *metrics.Metrics) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		fetch:   fetch,
		opts:    opts,
		log:     log,
		metrics: m,
		pause:   util.Pause,
	}
}

func (r *Runner) Run(ctx context.Context) (types.ScrapeResult, error) {
	stats := types.RunStats{StartedAt: time.Now().UTC()}

	all, err := r.fetchListings(ctx, &stats)
	if err != nil {
		return types.ScrapeResult{Stats: stats}, err
	}

	uniq := esbd.DedupeListings(all)
	stats.Unique = len(uniq)

	listings := r.enrich(ctx, uniq, &stats)
	return types.ScrapeResult{
		Listings: listings,
		Records:  MapRecords(listings, r.opts.Record),
		Stats:    stats,
	}, nil
}

func (r *Runner) fetchListings(ctx context.Context, stats *types.RunStats) ([]domain.RawListing, error) {
	var all []domain.RawListing
	for p := 1; p <= r.opts.Pages; p++ {
		u := esbd.ListPageURL(r.opts.Site.ListURL, p)
		page, err := r.fetch.Fetch(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", p, err)
		}
		items, err := esbd.ExtractListings(page, r.opts.Site)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", p, err)
		}
		r.log.Info("list page", zap.Int("page", p), zap.Int("items", len(items)))
		if r.metrics != nil {
			r.metrics.PagesTotal.Inc()
			r.metrics.ListingsTotal.Add(float64(len(items)))
		}
		stats.Pages++
		stats.Listings += len(items)
		all = append(all, items...)
		_ = r.pause(ctx, r.opts.Delay)
	}
	return all, nil
}

func (r *Runner) enrich(ctx context.Context, items []domain.RawListing, stats *types.RunStats) []domain.EnrichedListing {
	k := max(0, min(r.opts.MaxDetails, len(items)))
	out := make([]domain.EnrichedListing, 0, len(items))
	for i, it := range items {
		if i >= k {
			out = append(out, domain.EnrichedListing{RawListing: it})
			continue
		}

		e, err := r.enrichOne(ctx, it)
		if err != nil {
			msg := err.Error()
			e = domain.EnrichedListing{RawListing: it, DetailError: &msg}
			stats.DetailFailures++
			r.log.Warn("detail FAIL", zap.Int("n", i+1), zap.Int("of", k),
				zap.String("solicitation_id", it.SolicitationID), zap.Error(err))
		} else {
			stats.Enriched++
			r.log.Info("detail ok", zap.Int("n", i+1), zap.Int("of", k),
				zap.String("solicitation_id", it.SolicitationID))
		}
		r.metrics.IncDetail(err == nil)
		out = append(out, e)
		_ = r.pause(ctx, r.opts.Delay)
	}
	return out
}

func (r *Runner) enrichOne(ctx context.Context, it domain.RawListing) (domain.EnrichedListing, error) {
	page, err := r.fetch.Fetch(ctx, it.DetailURL)
	if err != nil {
		return domain.EnrichedListing{}, err
	}
	d, err := esbd.ExtractDetail(page, r.opts.Site)
	if err != nil {
		return domain.EnrichedListing{}, err
	}
	return domain.EnrichedListing{
		RawListing:  it,
		Description: d.Description,
		AgencyName:  d.AgencyName,
		Attachments: d.Attachments,
	}, nil
}

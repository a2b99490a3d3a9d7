package poll

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"esbd-engine/internal/config"
	"esbd-engine/internal/metrics"
	"esbd-engine/internal/output"
	"esbd-engine/internal/scrape"
	"esbd-engine/internal/scrape/esbd"
	"esbd-engine/internal/scrape/types"
	"esbd-engine/internal/sink"
	"esbd-engine/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of one run. Store, Sinks and Metrics are optional.
type Deps struct {
	Fetcher types.PageFetcher
	Sinks   []sink.Upserter
	Store   *store.DB
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Preview io.Writer
}

type Summary struct {
	Stats      types.RunStats
	Written    int
	SinkStatus string
}

func ScrapeOptions(cfg config.Config) scrape.Options {
	return scrape.Options{
		Site: esbd.Site{
			ListURL:      cfg.Source.ListURL,
			DetailBase:   cfg.Source.DetailBase,
			DetailPrefix: cfg.Source.DetailPrefix,
		},
		Pages:      cfg.Run.Pages,
		MaxDetails: cfg.Run.MaxDetails,
		Delay:      cfg.Delay(),
		Record: types.RecordConfig{
			SourceSystem:      cfg.Record.SourceSystem,
			JurisdictionLevel: cfg.Record.JurisdictionLevel,
			JurisdictionState: cfg.Record.JurisdictionState,
		},
	}
}

// RunOnce scrapes, writes the output file and publishes. Only a listing or
// output-file failure is returned; sink and snapshot failures are logged.
func RunOnce(ctx context.Context, cfg config.Config, d Deps) (Summary, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	res, err := scrape.NewRunner(d.Fetcher, ScrapeOptions(cfg), log, d.Metrics).Run(ctx)
	if err != nil {
		return Summary{Stats: res.Stats}, err
	}
	sum := Summary{Stats: res.Stats}

	if d.Preview != nil {
		if err := output.Preview(d.Preview, res.Records); err != nil {
			log.Warn("preview failed", zap.Error(err))
		}
	}

	if err := output.WriteJSON(cfg.Run.OutputPath, res.Records); err != nil {
		return sum, fmt.Errorf("write %s: %w", cfg.Run.OutputPath, err)
	}
	sum.Written = len(res.Records)
	log.Info("wrote", zap.String("path", cfg.Run.OutputPath), zap.Int("records", sum.Written))
	if d.Metrics != nil {
		d.Metrics.WrittenTotal.Add(float64(sum.Written))
	}

	var g errgroup.Group
	statuses := make([]string, len(d.Sinks))
	for i, s := range d.Sinks {
		i, s := i, s
		g.Go(func() error {
			statuses[i] = publish(ctx, s, res, log, d.Metrics)
			return nil // best-effort: a sink never fails the run
		})
	}
	if d.Store != nil {
		g.Go(func() error {
			n, err := store.UpsertRecords(ctx, d.Store.Pool, res.Records, res.Stats.StartedAt)
			if err != nil {
				log.Warn("snapshot upsert failed", zap.Error(err))
				return nil
			}
			log.Debug("snapshot upsert ok", zap.Int("records", n))
			return nil
		})
	}
	_ = g.Wait()
	sum.SinkStatus = strings.Join(statuses, "; ")

	if d.Store != nil {
		if err := store.RecordRun(ctx, d.Store.Pool, res.Stats, sum.Written, sum.SinkStatus); err != nil {
			log.Warn("run log insert failed", zap.Error(err))
		}
	}
	if d.Metrics != nil {
		d.Metrics.LastRunUnix.Set(float64(time.Now().Unix()))
		if err := d.Metrics.WriteTextfile(cfg.Run.MetricsFile); err != nil {
			log.Warn("metrics textfile write failed", zap.String("path", cfg.Run.MetricsFile), zap.Error(err))
		}
	}
	return sum, nil
}

func publish(ctx context.Context, s sink.Upserter, res types.ScrapeResult, log *zap.Logger, m *metrics.Metrics) string {
	r, err := s.Upsert(ctx, res.Records)
	m.IncUpsert(s.Name(), err == nil)
	if err != nil {
		log.Error("upsert failed", zap.String("sink", s.Name()), zap.Error(err))
		return fmt.Sprintf("%s:fail %v", s.Name(), err)
	}
	log.Info("upsert ok", zap.String("sink", s.Name()), zap.Int("status", r.Status), zap.Int("rows", r.Rows))
	if r.Status != 0 {
		return fmt.Sprintf("%s:ok %d", s.Name(), r.Status)
	}
	return s.Name() + ":ok"
}

package poll

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"esbd-engine/internal/config"
	"esbd-engine/internal/metrics"
	"esbd-engine/internal/scrape/esbd"
	"esbd-engine/internal/scrape/util"
	"esbd-engine/internal/secrets"
	"esbd-engine/internal/sink"
	"esbd-engine/internal/store"

	"go.uber.org/zap"
)

// BuildDeps wires the live collaborators for cfg. The returned func releases them.
func BuildDeps(ctx context.Context, cfg config.Config, log *zap.Logger, preview io.Writer) (Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var limiter *util.HostLimiter
	if cfg.Source.MaxRPS > 0 {
		limiter = util.NewHostLimiter(cfg.Source.MaxRPS, 1)
	}

	d := Deps{
		Fetcher: esbd.NewClient(esbd.ClientOptions{
			UserAgent: cfg.Source.UserAgent,
			Timeout:   cfg.Timeout(),
			Limiter:   limiter,
		}),
		Metrics: metrics.New(),
		Log:     log,
		Preview: preview,
	}

	if cfg.Sink.Key == "" && cfg.Sink.KeyringAccount != "" {
		key, err := secrets.GetSinkKey(cfg.Sink.KeyringAccount)
		if err != nil {
			log.Warn("sink key lookup failed", zap.String("account", cfg.Sink.KeyringAccount), zap.Error(err))
		}
		cfg.Sink.Key = key
	}
	if cfg.RESTSinkEnabled() {
		d.Sinks = append(d.Sinks, sink.NewREST(sink.RESTConfig{
			URL:          cfg.Sink.URL,
			Key:          cfg.Sink.Key,
			Table:        cfg.Sink.Table,
			ConflictKeys: cfg.Sink.OnConflict,
			Timeout:      cfg.Timeout(),
		}))
	}
	if cfg.Sink.PostgresDSN != "" {
		pg, err := sink.NewPostgres(ctx, cfg.Sink.PostgresDSN, cfg.Sink.Table, cfg.Sink.OnConflict)
		if err != nil {
			cleanup()
			return Deps{}, nil, err
		}
		closers = append(closers, pg.Close)
		d.Sinks = append(d.Sinks, pg)
	}

	if cfg.Run.DataDir != "" {
		if err := os.MkdirAll(cfg.Run.DataDir, 0o755); err != nil {
			cleanup()
			return Deps{}, nil, err
		}
		db, err := store.Open(ctx, filepath.Join(cfg.Run.DataDir, store.SnapshotFile))
		if err != nil {
			cleanup()
			return Deps{}, nil, fmt.Errorf("open snapshot store: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		d.Store = db
	}

	return d, cleanup, nil
}

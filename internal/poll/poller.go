package poll

import (
	"context"

	"esbd-engine/internal/config"
	"esbd-engine/internal/scheduler"

	"go.uber.org/zap"
)

// Watch repeats RunOnce every cfg.Run.IntervalMinutes until ctx ends. A
// failed run is logged and the loop carries on.
func Watch(ctx context.Context, cfg config.Config, d Deps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	scheduler.Every(ctx, cfg.Interval(), "scrape", log, func(ctx context.Context) error {
		sum, err := RunOnce(ctx, cfg, d)
		if err != nil {
			return err
		}
		log.Info("run ok",
			zap.Int("pages", sum.Stats.Pages),
			zap.Int("written", sum.Written),
			zap.Int("detail_failures", sum.Stats.DetailFailures))
		return nil
	})
}

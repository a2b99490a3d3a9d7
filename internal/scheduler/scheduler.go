package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task now and then on each tick until ctx ends. Task errors are
// logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, log *zap.Logger, task Task) {
	run := func() {
		if err := task(ctx); err != nil {
			log.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
		}
	}

	run()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}

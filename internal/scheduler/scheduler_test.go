package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEveryRunsImmediatelyAndSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, 5*time.Millisecond, "test", zap.NewNop(), func(context.Context) error {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return errors.New("transient")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("Every did not stop after cancel")
	}
	require.GreaterOrEqual(t, calls.Load(), int32(3))
}

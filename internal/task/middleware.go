package task

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/metrics"
)

// Recover turns a handler panic into a task failure so the worker keeps running.
func Recover() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf(ctx, "panic in %s handler: %v\n%s", t.Type(), r, debug.Stack())
					err = fmt.Errorf("panic in %s handler: %v", t.Type(), r)
				}
			}()
			return next.ProcessTask(ctx, t)
		})
	}
}

// Observe tags the context with the task identity, logs the task boundaries
// and records duration and result per task type.
func Observe(m *metrics.JobMetrics) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			id, _ := asynq.GetTaskID(ctx)
			ctx = logger.WithJob(ctx, t.Type(), id)

			logger.Infof(ctx, "▶️  starting %s job %q", t.Type(), id)
			start := time.Now()
			err := next.ProcessTask(ctx, t)
			m.ObserveDuration(t.Type(), time.Since(start))

			if err != nil {
				m.IncFailure(t.Type())
				logger.Errorf(ctx, "❌  %s job %q failed: %v", t.Type(), id, err)
				return err
			}
			m.IncSuccess(t.Type())
			logger.Infof(ctx, "✅  %s job %q done", t.Type(), id)
			return nil
		})
	}
}

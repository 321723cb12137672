package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/metrics"
)

type ServerConfig struct {
	Queue           string
	Concurrency     int
	BackoffBase     time.Duration
	BackoffMax      time.Duration
	ShutdownTimeout time.Duration
}

// NewServer builds the asynq server consuming the given queue.
// Failed tasks are retried with RetryDelay; tasks out of retries are archived by asynq.
func NewServer(opt asynq.RedisConnOpt, cfg ServerConfig, m *metrics.JobMetrics) *asynq.Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          map[string]int{cfg.Queue: 1},
		ShutdownTimeout: cfg.ShutdownTimeout,
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			return RetryDelay(n, cfg.BackoffBase, cfg.BackoffMax)
		},
		ErrorHandler: DeadLetterHandler(m),
		Logger:       asynqLogger{},
	})
}

// RetryDelay returns min(base*2^n, max).
func RetryDelay(n int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	if n < 0 {
		n = 0
	}
	d := base
	for i := 0; i < n; i++ {
		if d >= max/2 {
			return max
		}
		d *= 2
	}
	return d
}

// DeadLetterHandler reports tasks that will not be retried anymore.
func DeadLetterHandler(m *metrics.JobMetrics) asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		id, _ := asynq.GetTaskID(ctx)
		if retried < maxRetry && !errors.Is(err, asynq.SkipRetry) {
			logger.Warnf(ctx, "%s job %q failed (attempt %d/%d): %v", t.Type(), id, retried+1, maxRetry+1, err)
			return
		}
		m.IncDeadLettered(t.Type())
		logger.Errorf(ctx, "%s job %q dead-lettered after %d retries: %v", t.Type(), id, retried, err)
	})
}

// asynqLogger routes asynq's own logs through our slog logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debugf(context.Background(), "%s", fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Infof(context.Background(), "%s", fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warnf(context.Background(), "%s", fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Errorf(context.Background(), "%s", fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Errorf(context.Background(), "%s", fmt.Sprint(args...)) }

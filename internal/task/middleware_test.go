package task

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhuszti/assets-ms-go/internal/metrics"
)

func TestRecoverConvertsPanic(t *testing.T) {
	h := Recover()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		panic("nil map")
	}))

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeExtractExif, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil map")
}

func TestRecoverPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	h := Recover()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return boom }))

	assert.ErrorIs(t, h.ProcessTask(context.Background(), asynq.NewTask(TypeExtractExif, nil)), boom)
}

func TestObserveRecordsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := Observe(metrics.NewJobMetrics(reg))

	ok := mw(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return nil }))
	fail := mw(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return errors.New("boom") }))

	require.NoError(t, ok.ProcessTask(context.Background(), asynq.NewTask(TypeTagImage, nil)))
	require.NoError(t, ok.ProcessTask(context.Background(), asynq.NewTask(TypeTagImage, nil)))
	require.Error(t, fail.ProcessTask(context.Background(), asynq.NewTask(TypeTagImage, nil)))

	assert.Equal(t, 2.0, counterValue(t, reg, "asset_job_success_total", TypeTagImage))
	assert.Equal(t, 1.0, counterValue(t, reg, "asset_job_failure_total", TypeTagImage))
}

func TestObserveWithoutMetrics(t *testing.T) {
	h := Observe(nil)(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return nil }))
	assert.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(TypeTagImage, nil)))
}

package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/cache"
	"github.com/fhuszti/assets-ms-go/internal/exif"
	workerHandler "github.com/fhuszti/assets-ms-go/internal/handler/worker"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/renderer"
	"github.com/fhuszti/assets-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/assets-ms-go/internal/task"
	assetSvc "github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

type WorkerDeps struct {
	DB        *sql.DB
	Files     port.FileStore
	Tagger    port.Tagger
	Notifier  port.Notifier
	RedisAddr string
	Queue     string
}

// StartWorker runs the asset task handlers against real infrastructure,
// with a short backoff so retries are observable in tests.
// It returns a function to gracefully shut down the worker.
func StartWorker(deps WorkerDeps) func() {
	opt := asynq.RedisClientOpt{Addr: deps.RedisAddr}
	queue := task.NewQueue(opt, deps.Queue, 3)
	dispatcher := task.NewDispatcher(queue)
	repo := mariadb.NewAssetRepository(deps.DB)
	invalidator := renderer.NewHTTPRenderer(cache.NewNoop())

	mux := workerHandler.NewServeMux(workerHandler.Services{
		Processor:   assetSvc.NewProcessor(repo, dispatcher, true),
		Exif:        assetSvc.NewExifService(repo, deps.Files, exif.NewParser(), invalidator, deps.Notifier, false),
		Tagger:      assetSvc.NewTagService(repo, deps.Tagger, invalidator, deps.Notifier, false),
		FileDeleter: assetSvc.NewFileCleaner(deps.Files),
	}, nil)

	srv := task.NewServer(opt, task.ServerConfig{
		Queue:           deps.Queue,
		Concurrency:     5,
		BackoffBase:     100 * time.Millisecond,
		BackoffMax:      time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, nil)
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "worker did not start: %v", err)
	}

	return func() {
		srv.Shutdown()
		_ = queue.Close()
	}
}

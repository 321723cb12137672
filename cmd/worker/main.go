package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/cache"
	"github.com/fhuszti/assets-ms-go/internal/config"
	"github.com/fhuszti/assets-ms-go/internal/db"
	"github.com/fhuszti/assets-ms-go/internal/exif"
	workerHandler "github.com/fhuszti/assets-ms-go/internal/handler/worker"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/metrics"
	"github.com/fhuszti/assets-ms-go/internal/notify"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/renderer"
	"github.com/fhuszti/assets-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/assets-ms-go/internal/storage"
	"github.com/fhuszti/assets-ms-go/internal/tagger"
	"github.com/fhuszti/assets-ms-go/internal/task"
	assetSvc "github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init("assets-worker")

	database := initDb(ctx, cfg)
	files := initFileStore(ctx, cfg)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	queue := task.NewQueue(redisOpt, cfg.QueueName, cfg.QueueMaxRetry)
	dispatcher := task.NewDispatcher(queue)

	var ca port.Cache = cache.NewNoop()
	if cfg.CacheTTL > 0 {
		ca = cache.NewCache(rdb, cfg.CacheTTL)
	}
	invalidator := renderer.NewHTTPRenderer(ca)
	// sessions live in the api processes
	relay := notify.NewRedisRelay(rdb)

	repo := mariadb.NewAssetRepository(database.DB)
	if cfg.ReprocessOverwrite {
		logger.Warn(ctx, "⚠️  REPROCESS_OVERWRITE enabled: satellite records are replaced on re-run")
	}
	if !cfg.TaggingEnabled {
		logger.Warn(ctx, "⚠️  TAGGING_ENABLED is false: no tag-image jobs are scheduled")
	}

	svc := workerHandler.Services{
		Processor: assetSvc.NewProcessor(repo, dispatcher, cfg.TaggingEnabled),
		Exif: assetSvc.NewExifService(
			repo, files, exif.NewParser(), invalidator, relay, cfg.ReprocessOverwrite,
		),
		Tagger: assetSvc.NewTagService(
			repo, tagger.NewClient(cfg.MLServiceURL, cfg.MLTimeout), invalidator, relay, cfg.ReprocessOverwrite,
		),
		FileDeleter: assetSvc.NewFileCleaner(files),
	}

	reg := metrics.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(reg)
	mux := workerHandler.NewServeMux(svc, jobMetrics)

	srv := task.NewServer(redisOpt, task.ServerConfig{
		Queue:           cfg.QueueName,
		Concurrency:     cfg.WorkerConcurrency,
		BackoffBase:     cfg.QueueBackoffBase,
		BackoffMax:      cfg.QueueBackoffMax,
		ShutdownTimeout: 30 * time.Second,
	}, jobMetrics)

	metricsSrv := &http.Server{Addr: ":" + strconv.Itoa(cfg.WorkerMetricsPort), Handler: metrics.Handler(reg)}
	go func() {
		logger.Infof(ctx, "📈 Worker metrics on %s", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Metrics listen error: %v", err)
		}
	}()

	runWorker(ctx, srv, mux)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf(ctx, "Metrics server shutdown error: %v", err)
	}
	if err := queue.Close(); err != nil {
		logger.Warnf(ctx, "Queue close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Warnf(ctx, "Redis close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initFileStore(ctx context.Context, cfg *config.Settings) port.FileStore {
	if cfg.FileStore == config.FileStoreMinio {
		strg, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
			os.Exit(1)
		}
		store, err := strg.WithBucket(ctx, cfg.MinioBucket)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
			os.Exit(1)
		}
		return store
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize upload dir %q: %v", cfg.UploadDir, err)
		os.Exit(1)
	}
	return store
}

// runWorker blocks until SIGINT/SIGTERM, then lets in-flight tasks finish.
func runWorker(ctx context.Context, srv *asynq.Server, mux *asynq.ServeMux) {
	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed to start: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// waits up to ShutdownTimeout for running handlers
	srv.Shutdown()
}

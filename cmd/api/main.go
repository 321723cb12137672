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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/assets-ms-go/internal/auth"
	"github.com/fhuszti/assets-ms-go/internal/cache"
	"github.com/fhuszti/assets-ms-go/internal/config"
	"github.com/fhuszti/assets-ms-go/internal/db"
	"github.com/fhuszti/assets-ms-go/internal/handler/api"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/metrics"
	cMiddleware "github.com/fhuszti/assets-ms-go/internal/middleware"
	"github.com/fhuszti/assets-ms-go/internal/notify"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/renderer"
	"github.com/fhuszti/assets-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/assets-ms-go/internal/storage"
	"github.com/fhuszti/assets-ms-go/internal/task"
	assetSvc "github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	msuuid "github.com/fhuszti/assets-ms-go/internal/uuid"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init("assets-api")

	database := initDb(ctx, cfg)
	files := initFileStore(ctx, cfg)

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	ca := initCache(ctx, rdb, cfg.CacheTTL)

	queue := task.NewQueue(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}, cfg.QueueName, cfg.QueueMaxRetry)
	dispatcher := task.NewDispatcher(queue)

	validator := auth.NewValidator(cfg.JWTSecret)

	reg := metrics.NewRegistry()
	gateway := notify.NewGateway(validator, metrics.NewGatewayMetrics(reg))

	// every event goes through the relay so sessions on any replica receive it
	relay := notify.NewRedisRelay(rdb)
	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	go func() {
		if err := relay.Run(relayCtx, gateway); err != nil {
			logger.Errorf(ctx, "❌  Notification relay stopped: %v", err)
		}
	}()

	repo := mariadb.NewAssetRepository(database.DB)
	rendererSvc := renderer.NewHTTPRenderer(ca)

	r := initRouter(ctx)
	r.Get("/ws", gateway.ServeWS)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(cMiddleware.WithAuth(validator))

		ingestSvc := assetSvc.NewIngester(repo, dispatcher, relay, msuuid.NewUUID)
		r.Post("/assets/upload", api.UploadAssetsHandler(files, ingestSvc, msuuid.NewUUID))

		r.Post("/assets/check", api.CheckDuplicateHandler(assetSvc.NewDuplicateFinder(repo)))

		r.Delete("/assets", api.DeleteAssetsHandler(assetSvc.NewDeleter(repo, dispatcher, rendererSvc)))

		browseSvc := assetSvc.NewBrowser(repo)
		r.Get("/assets", api.ListAssetsHandler(browseSvc))
		r.Get("/assets/device/{deviceId}", api.ListDeviceAssetsHandler(browseSvc))
		r.Get("/assets/objects", api.CuratedObjectsHandler(browseSvc))
		r.Get("/assets/locations", api.CuratedLocationsHandler(browseSvc))
		r.Get("/assets/search-terms", api.SearchTermsHandler(browseSvc))
		r.Post("/assets/search", api.SearchAssetsHandler(browseSvc))

		r.With(cMiddleware.WithAssetID()).
			Get("/assets/{id}", api.GetAssetHandler(rendererSvc, assetSvc.NewGetter(repo)))

		jobsSvc := assetSvc.NewJobInspector(repo, queue)
		r.With(cMiddleware.WithOperator(cfg.OperatorIDs)).
			Get("/jobs/dead", api.ListDeadLettersHandler(jobsSvc))
		r.With(cMiddleware.WithAssetID()).
			Get("/jobs/{id}", api.GetJobStateHandler(jobsSvc))
	})

	listenRouter(ctx, r, cfg, func() {
		stopRelay()
		if err := queue.Close(); err != nil {
			logger.Warnf(ctx, "Queue close error: %v", err)
		}
		if err := rdb.Close(); err != nil {
			logger.Warnf(ctx, "Redis close error: %v", err)
		}
		if err := database.Close(); err != nil {
			logger.Errorf(ctx, "DB close error: %v", err)
		}
	})
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

func initCache(ctx context.Context, rdb *redis.Client, ttl time.Duration) port.Cache {
	if ttl <= 0 {
		logger.Warn(ctx, "⚠️  CACHE_TTL_SECONDS is 0: asset caching is disabled")
		return cache.NewNoop()
	}
	logger.Info(ctx, "✅  Redis cache enabled")
	return cache.NewCache(rdb, ttl)
}

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, cleanup func()) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
	}
	cleanup()
	logger.Info(ctx, "✅  Server gracefully stopped")
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	// OperatorIDs may read queue-wide state such as dead letters.
	OperatorIDs []uuid.UUID

	FileStore      string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// TaggingEnabled turns the tag-image chain on. The ML service reads
	// thumbnails from its local disk, so it needs FILE_STORE=disk.
	TaggingEnabled bool
	MLServiceURL   string
	MLTimeout      time.Duration

	QueueName          string
	QueueMaxRetry      int
	QueueBackoffBase   time.Duration
	QueueBackoffMax    time.Duration
	WorkerConcurrency  int
	WorkerMetricsPort  int
	ReprocessOverwrite bool

	CacheTTL time.Duration
}

const (
	FileStoreDisk  = "disk"
	FileStoreMinio = "minio"
)

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"REDIS_ADDR",
		"JWT_SECRET",
	} {
		if !viper.IsSet(key) || viper.GetString(key) == "" {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		FileStore:      stringOr("FILE_STORE", FileStoreDisk),
		UploadDir:      stringOr("UPLOAD_DIR", "./upload"),
		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    stringOr("MINIO_BUCKET", "assets"),

		TaggingEnabled: boolOr("TAGGING_ENABLED", true),
		MLServiceURL:   stringOr("ML_SERVICE_URL", "http://immich_tf_fastapi:8000"),
		MLTimeout:      time.Duration(intOr("ML_TIMEOUT_SECONDS", 30)) * time.Second,

		QueueName:          stringOr("QUEUE_NAME", "assets"),
		QueueMaxRetry:      intOr("QUEUE_MAX_RETRY", 5),
		QueueBackoffBase:   time.Duration(intOr("QUEUE_BACKOFF_BASE_SECONDS", 2)) * time.Second,
		QueueBackoffMax:    time.Duration(intOr("QUEUE_BACKOFF_MAX_SECONDS", 300)) * time.Second,
		WorkerConcurrency:  intOr("WORKER_CONCURRENCY", 10),
		WorkerMetricsPort:  intOr("WORKER_METRICS_PORT", 9091),
		ReprocessOverwrite: viper.GetBool("REPROCESS_OVERWRITE"),

		CacheTTL: time.Duration(intOr("CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	ids, err := uuidList("OPERATOR_USER_IDS")
	if err != nil {
		return nil, err
	}
	s.OperatorIDs = ids

	switch s.FileStore {
	case FileStoreDisk:
	case FileStoreMinio:
		if s.MinioEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when FILE_STORE=minio")
		}
		// thumbnails would reach the ML service as object keys it cannot open
		if s.TaggingEnabled {
			return nil, fmt.Errorf("FILE_STORE=minio requires TAGGING_ENABLED=false")
		}
	default:
		return nil, fmt.Errorf("FILE_STORE must be %q or %q, got %q", FileStoreDisk, FileStoreMinio, s.FileStore)
	}

	return s, nil
}

func stringOr(key, def string) string {
	if viper.IsSet(key) && viper.GetString(key) != "" {
		return viper.GetString(key)
	}
	return def
}

func intOr(key string, def int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

func boolOr(key string, def bool) bool {
	if viper.IsSet(key) && viper.GetString(key) != "" {
		return viper.GetBool(key)
	}
	return def
}

// uuidList parses a comma separated list of user ids.
func uuidList(key string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, raw := range strings.Split(viper.GetString(key), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a user id", key, raw)
		}
		out = append(out, id)
	}
	return out, nil
}

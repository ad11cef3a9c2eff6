package initial

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"coursedash/pkg/config"
	"coursedash/pkg/documents"
	"coursedash/pkg/kfka"
	"coursedash/pkg/search"
	"coursedash/pkg/storage"
)

// LoadEnvComp reads .env into the process environment without overriding
// variables that are already set. The error is reported by the caller once
// its logger exists.
func LoadEnvComp() error {
	return godotenv.Load()
}

// OpenSlots opens the slot backend named by STORAGE_BACKEND.
func OpenSlots(ctx context.Context, cfg *config.Config) (storage.SlotStore, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		return storage.OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return storage.OpenPostgres(cfg.PostgresDSN())
	case "redis":
		return storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case "memory":
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// InitES returns nil when no ES_ADDRESS is set.
func InitES(cfg *config.Config, logger zerolog.Logger) (*search.Index, error) {
	if cfg.ESAddress == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ESAddress},
		Username:  cfg.ESUsername,
		Password:  cfg.ESPassword,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return search.New(client, logger), nil
}

// InitObjects returns nil when UPLOAD_BACKEND=none.
func InitObjects(ctx context.Context, cfg *config.Config) (documents.ObjectStore, error) {
	switch cfg.UploadBackend {
	case "minio":
		return documents.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioSecure, cfg.UploadBucket)
	case "s3":
		return documents.NewS3Store(ctx, cfg.S3URL, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.UploadBucket)
	}
	return nil, nil
}

// InitKafka returns nil when no brokers are configured; a nil publisher drops
// every notification.
func InitKafka(cfg *config.Config, logger zerolog.Logger) *kfka.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	return kfka.NewPublisher(
		kfka.NewWriter(cfg.KafkaBrokers, cfg.CourseTopic),
		kfka.NewWriter(cfg.KafkaBrokers, cfg.QuizTopic),
		logger,
	)
}

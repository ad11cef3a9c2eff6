package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment    string   `envconfig:"ENV" default:"development"`
	Port           string   `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// Slot storage: sqlite, postgres, redis or memory.
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"sqlite"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"data/coursedash.db"`
	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         int    `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"postgres"`
	DBPassword     string `envconfig:"DB_PASSWORD"`
	DBName         string `envconfig:"DB_NAME" default:"coursedash"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix    string `envconfig:"REDIS_PREFIX" default:"coursedash:"`

	// Search is off when ES_ADDRESS is empty.
	ESAddress  string `envconfig:"ES_ADDRESS"`
	ESUsername string `envconfig:"ES_USERNAME" default:"elastic"`
	ESPassword string `envconfig:"ES_PASSWORD"`

	// Events are off when KAFKA_BROKERS is empty.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	CourseTopic  string   `envconfig:"KAFKA_COURSE_TOPIC" default:"course_notifications"`
	QuizTopic    string   `envconfig:"KAFKA_QUIZ_TOPIC" default:"quiz_notifications"`

	// Uploads: minio, s3 or none.
	UploadBackend  string `envconfig:"UPLOAD_BACKEND" default:"none"`
	UploadBucket   string `envconfig:"UPLOAD_BUCKET" default:"uploads"`
	MaxUploadMB    int64  `envconfig:"MAX_UPLOAD_MB" default:"512"`
	PublicBaseURL  string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioSecure    bool   `envconfig:"MINIO_SECURE" default:"false"`
	S3URL          string `envconfig:"S3_URL"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "sqlite", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.UploadBackend {
	case "minio", "s3", "none":
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.UploadBackend)
	}
	if c.UploadBackend == "s3" && c.S3URL == "" {
		return fmt.Errorf("S3_URL is required when UPLOAD_BACKEND=s3")
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

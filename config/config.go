package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application.
type Config struct {
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	// Database configuration. DB_TYPE selects the gorm driver:
	// "postgres" for deployments, "sqlite" for local development.
	DBType     string `env:"DB_TYPE" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"foodgram"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"foodgram"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/foodgram.db"`

	// Redis backs the write rate limiter. Optional: the server starts
	// without rate limiting when the address is empty or unreachable.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`

	// Media storage. "local" writes under StorageLocalDir and serves
	// files from StoragePublicBaseURL; "s3" uploads to the bucket.
	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"data/media"`
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/media"`
	StorageS3Region      string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket      string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix      string `env:"STORAGE_S3_PREFIX"`

	MaxAvatarBytes int64 `env:"MAX_AVATAR_BYTES" envDefault:"2097152"`
	PageSize       int   `env:"PAGE_SIZE" envDefault:"6"`
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		logrus.WithError(err).Error("failed to parse environment")
		return nil, err
	}
	if cfg.DBType != "postgres" && cfg.DBType != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", cfg.DBType)
	}
	return cfg, nil
}

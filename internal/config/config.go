package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Revocation store backends.
const (
	RevocationMemory   = "memory"
	RevocationPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" envDefault:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" envDefault:"300"`
	ConnMaxIdleTimeSec int    `env:"DB_CONN_MAX_IDLE_TIME_SEC" envDefault:"60"`
	// ApplicationName is reported to PostgreSQL and shows up in pg_stat_activity.
	ApplicationName string `env:"DB_APPLICATION_NAME" envDefault:"filevault"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// StorageConfig selects and configures the blob store.
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"local"`
	// Dir is the root of the blob tree for the local driver.
	Dir   string `env:"STORAGE_DIR" envDefault:"uploads"`
	MinIO MinIOConfig
}

// AuthConfig holds token signing and lifetime settings.
type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"10m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	RevocationStore string        `env:"REVOCATION_STORE" envDefault:"memory"`
	PurgeInterval   time.Duration `env:"REVOCATION_PURGE_INTERVAL" envDefault:"5m"`
	RateLimit       int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	RateWindow      time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
}

// HTTPConfig holds server limits and timeouts.
type HTTPConfig struct {
	ReadTimeout      time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout     time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout      time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	MaxUploadBytes   int           `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

// SweepConfig controls the orphaned blob sweeper. An Interval of zero disables it.
type SweepConfig struct {
	Interval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
	Grace    time.Duration `env:"SWEEP_GRACE" envDefault:"1h"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port      string `env:"PORT" envDefault:"8080"`
	Timezone  string `env:"APP_TIMEZONE" envDefault:"UTC"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Database  DatabaseConfig
	Storage   StorageConfig
	Auth      AuthConfig
	HTTP      HTTPConfig
	Sweep     SweepConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageLocal, StorageMinIO:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Auth.RevocationStore {
	case RevocationMemory, RevocationPostgres:
	default:
		return fmt.Errorf("invalid REVOCATION_STORE %q", c.Auth.RevocationStore)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

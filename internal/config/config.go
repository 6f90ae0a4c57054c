package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL settings for the optional upload ledger.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a ledger database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for the optional upload mirror.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether a mirror bucket was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// EngineConfig describes the remote computation engine and the timeout budget of each call.
type EngineConfig struct {
	BaseURL        string
	AnalyzeTimeout time.Duration
	CleanTimeout   time.Duration
	TrainTimeout   time.Duration
	HealthTimeout  time.Duration
}

// UploadConfig controls where uploaded datasets are persisted and how large they may be.
type UploadConfig struct {
	Dir      string
	MaxBytes int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated once from environment variables and never mutated afterwards.
type AppConfig struct {
	Env      string
	Port     string
	Timezone string
	LogLevel string
	Engine   EngineConfig
	Upload   UploadConfig
	Database DatabaseConfig
	MinIO    MinIOConfig

	// ShutdownTimeout bounds how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout time.Duration
}

// IsProduction reports whether internal error details must be hidden from callers.
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

// Location returns the configured log time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	return &AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "5000"),
		Timezone: getEnv("TZ_NAME", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Engine: EngineConfig{
			BaseURL:        getEnv("ML_SERVICE_URL", "http://localhost:8000"),
			AnalyzeTimeout: getEnvDuration("ENGINE_ANALYZE_TIMEOUT", 30*time.Second),
			CleanTimeout:   getEnvDuration("ENGINE_CLEAN_TIMEOUT", 60*time.Second),
			TrainTimeout:   getEnvDuration("ENGINE_TRAIN_TIMEOUT", 120*time.Second),
			HealthTimeout:  getEnvDuration("ENGINE_HEALTH_TIMEOUT", 2*time.Second),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: getEnvInt("UPLOAD_MAX_BYTES", 100*1024*1024),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

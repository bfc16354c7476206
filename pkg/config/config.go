package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadConfig
	Backups  BackupConfig
	Quiz     QuizConfig
	Cache    CacheConfig
	Sync     SyncConfig
	Metrics  MetricsConfig
}

type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadConfig governs resource ingestion.
type UploadConfig struct {
	ResourcesDir     string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// BackupConfig controls database snapshots written to disk.
type BackupConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	Retention       time.Duration
	CleanupInterval time.Duration
}

// QuizConfig tunes quiz deck generation and session lifetime.
type QuizConfig struct {
	SessionTTL       time.Duration
	DefaultQuestions int
	MaxQuestions     int
}

// CacheConfig governs cached read models (media list, statistics).
type CacheConfig struct {
	TTL time.Duration
}

// SyncConfig sizes the background nomenclature sync queue.
type SyncConfig struct {
	Workers int
	Retries int
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Path:         v.GetString("DB_PATH"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_BYTES")
	if maxUpload <= 0 {
		maxUpload = 100 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{
		ResourcesDir:     v.GetString("RESOURCES_DIR"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOAD_ALLOWED_MIME_TYPES")),
	}

	cfg.Backups = BackupConfig{
		StorageDir:      v.GetString("BACKUPS_DIR"),
		SignedURLSecret: v.GetString("BACKUPS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("BACKUPS_SIGNED_URL_TTL"), 30*time.Minute),
		Retention:       parseDuration(v.GetString("BACKUPS_RETENTION"), 7*24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("BACKUPS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Quiz = QuizConfig{
		SessionTTL:       parseDuration(v.GetString("QUIZ_SESSION_TTL"), 2*time.Hour),
		DefaultQuestions: v.GetInt("QUIZ_DEFAULT_QUESTIONS"),
		MaxQuestions:     v.GetInt("QUIZ_MAX_QUESTIONS"),
	}

	cfg.Cache = CacheConfig{TTL: parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute)}

	cfg.Sync = SyncConfig{
		Workers: v.GetInt("SYNC_WORKERS"),
		Retries: v.GetInt("SYNC_RETRIES"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3001)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "./data/synergo.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "synergo")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RESOURCES_DIR", "./public/resources")
	v.SetDefault("UPLOAD_MAX_BYTES", 100*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/gif,image/webp,video/mp4,video/webm,video/ogg,video/quicktime")

	v.SetDefault("BACKUPS_DIR", "./backups")
	v.SetDefault("BACKUPS_SIGNED_URL_SECRET", "dev_backups_secret")
	v.SetDefault("BACKUPS_SIGNED_URL_TTL", "30m")
	v.SetDefault("BACKUPS_RETENTION", "168h")
	v.SetDefault("BACKUPS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("QUIZ_SESSION_TTL", "2h")
	v.SetDefault("QUIZ_DEFAULT_QUESTIONS", 10)
	v.SetDefault("QUIZ_MAX_QUESTIONS", 100)

	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("SYNC_WORKERS", 1)
	v.SetDefault("SYNC_RETRIES", 3)
	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

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
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store   StoreConfig
	Mirror  MirrorConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Admin   AdminConfig
	CORS    CORSConfig
	Log     LogConfig
	Uploads UploadsConfig
	Exports ExportsConfig
}

// StoreConfig controls the local document store.
type StoreConfig struct {
	Dir          string
	KeyPrefix    string
	SeedOnInit   bool
	DashboardTTL time.Duration
	CacheEnabled bool
}

// MirrorConfig drives the best-effort Postgres mirror.
type MirrorConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
	PingInterval time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminConfig holds the shared admin credential pair. PasswordHash wins
// when both are set; the plaintext Password is a development convenience
// hashed at startup.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls photo upload storage.
type UploadsConfig struct {
	Dir              string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
}

// ExportsConfig controls roster export rendering.
type ExportsConfig struct {
	Dir             string
	SignedURLSecret string
	SignedURLTTL    time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Dir:          v.GetString("STORE_DIR"),
		KeyPrefix:    v.GetString("STORE_KEY_PREFIX"),
		SeedOnInit:   v.GetBool("STORE_SEED_ON_INIT"),
		DashboardTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
	}

	cfg.Mirror = MirrorConfig{
		Enabled:      v.GetBool("ENABLE_MIRROR"),
		Host:         v.GetString("MIRROR_DB_HOST"),
		Port:         v.GetInt("MIRROR_DB_PORT"),
		User:         v.GetString("MIRROR_DB_USER"),
		Password:     v.GetString("MIRROR_DB_PASSWORD"),
		Name:         v.GetString("MIRROR_DB_NAME"),
		SSLMode:      v.GetString("MIRROR_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("MIRROR_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("MIRROR_DB_MAX_IDLE_CONNS"),
		Workers:      v.GetInt("MIRROR_WORKERS"),
		MaxRetries:   v.GetInt("MIRROR_MAX_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("MIRROR_RETRY_DELAY"), 2*time.Second),
		PingInterval: parseDuration(v.GetString("MIRROR_PING_INTERVAL"), 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Admin = AdminConfig{
		Username:     v.GetString("ADMIN_USERNAME"),
		Password:     v.GetString("ADMIN_PASSWORD"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:              v.GetString("UPLOADS_DIR"),
		SignedURLSecret:  v.GetString("UPLOADS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("UPLOADS_SIGNED_URL_TTL"), 24*time.Hour),
		MaxFileSizeBytes: maxUploadSize,
	}

	cfg.Exports = ExportsConfig{
		Dir:             v.GetString("EXPORTS_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("STORE_KEY_PREFIX", "pln")
	v.SetDefault("STORE_SEED_ON_INIT", true)
	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_MIRROR", false)
	v.SetDefault("MIRROR_DB_HOST", "localhost")
	v.SetDefault("MIRROR_DB_PORT", 5432)
	v.SetDefault("MIRROR_DB_USER", "postgres")
	v.SetDefault("MIRROR_DB_PASSWORD", "postgres")
	v.SetDefault("MIRROR_DB_NAME", "pln_intern")
	v.SetDefault("MIRROR_DB_SSL_MODE", "disable")
	v.SetDefault("MIRROR_DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("MIRROR_DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("MIRROR_WORKERS", 1)
	v.SetDefault("MIRROR_MAX_RETRIES", 3)
	v.SetDefault("MIRROR_RETRY_DELAY", "2s")
	v.SetDefault("MIRROR_PING_INTERVAL", "30s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "pln-intern-api")

	v.SetDefault("ADMIN_USERNAME", "admin")
	// development only, set ADMIN_PASSWORD_HASH in production
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_SIGNED_URL_SECRET", "dev_uploads_secret")
	v.SetDefault("UPLOADS_SIGNED_URL_TTL", "24h")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)

	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
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

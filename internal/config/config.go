package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Notifier NotifierConfig
	Events   EventsConfig
	Upload   UploadConfig
	Tariff   TariffConfig
	Relay    RelayConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds token validation settings. Tokens are issued by the
// external identity provider; this service only verifies them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig holds the change feed connection. An empty Addr selects the
// in-memory feed.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotifierConfig selects how new-application notifications are delivered.
type NotifierConfig struct {
	Provider    string        `mapstructure:"provider"` // "relay" or "noop"
	RelayURL    string        `mapstructure:"relay_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// EventsConfig holds the in-process event bus settings.
type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// UploadConfig holds attachment upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// TariffConfig points at an optional YAML tariff override.
type TariffConfig struct {
	File string `mapstructure:"file"`
}

// RelayConfig holds the mail relay service settings.
type RelayConfig struct {
	Port            string   `mapstructure:"port"`
	Recipients      []string `mapstructure:"recipients"`
	RateLimitPerSec float64  `mapstructure:"rate_limit_per_sec"`
	RateBurst       int      `mapstructure:"rate_burst"`
}

// EmailConfig holds email delivery settings used by the relay.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Load reads configuration from environment variables with the SOLARHUB_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("SOLARHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "solarhub")
	v.SetDefault("db.password", "solarhub_secret")
	v.SetDefault("db.name", "solarhub_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "solarhub")

	// S3 defaults
	v.SetDefault("s3.region", "me-central-1")
	v.SetDefault("s3.bucket", "solarhub-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("notifier.provider", "noop")
	v.SetDefault("notifier.relay_url", "http://localhost:3001/api/send-application-email")
	v.SetDefault("notifier.timeout", "10s")
	v.SetDefault("notifier.concurrency", 4)

	v.SetDefault("events.buffer_size", 256)

	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_files", 10)

	v.SetDefault("tariff.file", "")

	v.SetDefault("relay.port", ":3001")
	v.SetDefault("relay.recipients", "")
	v.SetDefault("relay.rate_limit_per_sec", 2)
	v.SetDefault("relay.rate_burst", 10)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "me-central-1")
	v.SetDefault("email.from_address", "noreply@solarhub.ae")
	v.SetDefault("email.from_name", "SolarHub")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "SOLARHUB_SERVER_PORT",
		"server.read_timeout":      "SOLARHUB_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "SOLARHUB_SERVER_WRITE_TIMEOUT",
		"server.environment":       "SOLARHUB_SERVER_ENVIRONMENT",
		"db.host":                  "SOLARHUB_DB_HOST",
		"db.port":                  "SOLARHUB_DB_PORT",
		"db.user":                  "SOLARHUB_DB_USER",
		"db.password":              "SOLARHUB_DB_PASSWORD",
		"db.name":                  "SOLARHUB_DB_NAME",
		"db.sslmode":               "SOLARHUB_DB_SSLMODE",
		"db.max_open":              "SOLARHUB_DB_MAX_OPEN",
		"db.max_idle":              "SOLARHUB_DB_MAX_IDLE",
		"jwt.secret":               "SOLARHUB_JWT_SECRET",
		"jwt.issuer":               "SOLARHUB_JWT_ISSUER",
		"s3.region":                "SOLARHUB_S3_REGION",
		"s3.bucket":                "SOLARHUB_S3_BUCKET",
		"s3.endpoint":              "SOLARHUB_S3_ENDPOINT",
		"s3.access_key":            "SOLARHUB_S3_ACCESS_KEY",
		"s3.secret_key":            "SOLARHUB_S3_SECRET_KEY",
		"s3.presign_expiry":        "SOLARHUB_S3_PRESIGN_EXPIRY",
		"log.level":                "SOLARHUB_LOG_LEVEL",
		"log.format":               "SOLARHUB_LOG_FORMAT",
		"cors.allowed_origins":     "SOLARHUB_CORS_ALLOWED_ORIGINS",
		"redis.addr":               "SOLARHUB_REDIS_ADDR",
		"redis.password":           "SOLARHUB_REDIS_PASSWORD",
		"redis.db":                 "SOLARHUB_REDIS_DB",
		"notifier.provider":        "SOLARHUB_NOTIFIER_PROVIDER",
		"notifier.relay_url":       "SOLARHUB_NOTIFIER_RELAY_URL",
		"notifier.timeout":         "SOLARHUB_NOTIFIER_TIMEOUT",
		"notifier.concurrency":     "SOLARHUB_NOTIFIER_CONCURRENCY",
		"events.buffer_size":       "SOLARHUB_EVENTS_BUFFER_SIZE",
		"upload.max_file_size_mb":  "SOLARHUB_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_files":         "SOLARHUB_UPLOAD_MAX_FILES",
		"tariff.file":              "SOLARHUB_TARIFF_FILE",
		"relay.port":               "SOLARHUB_RELAY_PORT",
		"relay.recipients":         "SOLARHUB_RELAY_RECIPIENTS",
		"relay.rate_limit_per_sec": "SOLARHUB_RELAY_RATE_LIMIT_PER_SEC",
		"relay.rate_burst":         "SOLARHUB_RELAY_RATE_BURST",
		"email.provider":           "SOLARHUB_EMAIL_PROVIDER",
		"email.region":             "SOLARHUB_EMAIL_REGION",
		"email.from_address":       "SOLARHUB_EMAIL_FROM_ADDRESS",
		"email.from_name":          "SOLARHUB_EMAIL_FROM_NAME",
		"email.frontend_url":       "SOLARHUB_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SOLARHUB_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SOLARHUB_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Notifier = NotifierConfig{
		Provider:    v.GetString("notifier.provider"),
		RelayURL:    v.GetString("notifier.relay_url"),
		Timeout:     v.GetDuration("notifier.timeout"),
		Concurrency: v.GetInt("notifier.concurrency"),
	}
	cfg.Events = EventsConfig{
		BufferSize: v.GetInt("events.buffer_size"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxFiles:      v.GetInt("upload.max_files"),
	}
	cfg.Tariff = TariffConfig{
		File: v.GetString("tariff.file"),
	}

	relayPort := v.GetString("relay.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SOLARHUB_RELAY_PORT") == "" {
		relayPort = ":" + port
	}
	cfg.Relay = RelayConfig{
		Port:            relayPort,
		Recipients:      splitList(v.GetString("relay.recipients")),
		RateLimitPerSec: v.GetFloat64("relay.rate_limit_per_sec"),
		RateBurst:       v.GetInt("relay.rate_burst"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Notifier.Provider {
	case "noop", "relay":
	default:
		return fmt.Errorf("config: unknown notifier provider %q", c.Notifier.Provider)
	}
	if c.Notifier.Provider == "relay" && c.Notifier.RelayURL == "" {
		return fmt.Errorf("config: notifier.relay_url is required for the relay provider")
	}
	if c.Events.BufferSize < 1 {
		return fmt.Errorf("config: events.buffer_size must be positive")
	}
	if c.Notifier.Concurrency < 1 {
		return fmt.Errorf("config: notifier.concurrency must be positive")
	}
	return nil
}

// MaxFileSizeBytes returns the per-file upload limit in bytes.
func (u UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

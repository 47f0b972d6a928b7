package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

const minSecretLength = 32

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	Secret       string
	TokenTTL     time.Duration
	CookieName   string
	SecureCookie bool
}

// RedisConfig configures the summary cache. An empty URL disables it.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// KafkaConfig configures domain event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Google Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
}

// Enabled reports whether outbound WhatsApp notifications are configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves the shop time zone. Validate has already checked it.
func (c ReportingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	shutdown, err := getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getenvDuration("AUTH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getenvDuration("CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	secure, err := getenvBool("AUTH_COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins:  getenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout: shutdown,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "washify"),
		},
		Auth: AuthConfig{
			Secret:       os.Getenv("AUTH_SECRET"),
			TokenTTL:     tokenTTL,
			CookieName:   getenvWithDefault("AUTH_COOKIE_NAME", "washify_session"),
			SecureCookie: secure,
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
			TTL: cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers: getenvList("KAFKA_BROKERS", nil),
			Topic:   getenvWithDefault("KAFKA_TOPIC", "washify.events"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Lagos"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if len(c.Auth.Secret) < minSecretLength {
		return fmt.Errorf("AUTH_SECRET must be at least %d characters", minSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.Auth.CookieName == "" {
		return errors.New("AUTH_COOKIE_NAME must not be empty")
	}

	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC must be provided when KAFKA_BROKERS is set")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if (c.WhatsApp.AccessToken == "") != (c.WhatsApp.PhoneNumberID == "") {
		return errors.New("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be provided together")
	}
	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getenvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

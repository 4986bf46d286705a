package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	// PaymentMode gates the simulated confirm-payment endpoint. Only
	// ModeSimulated enables it; ModeLive rejects every call.
	PaymentMode string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	SMTP SMTPConfig

	RateLimit RateLimitConfig
}

// SMTPConfig carries the notifier collaborator credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough SMTP settings are present to attempt a send.
func (c SMTPConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != "" && c.Port > 0 && strings.TrimSpace(c.From) != ""
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ShareResolveRate    float64
	ShareResolveBurst   int
	ConfirmPaymentRate  float64
	ConfirmPaymentBurst int
}

const (
	ModeSimulated = "simulated"
	ModeLive      = "live"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewNotificationTemplateHolder),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "valentine"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  environment,
		PaymentMode:  normalizePaymentMode(getenv("PAYMENT_MODE", defaultPaymentMode(environment))),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "valentine"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     strings.TrimSpace(getenv("SMTP_FROM", "")),
		},

		RateLimit: RateLimitConfig{
			Enabled:             getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:           strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword:       getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:             getenvInt("RATE_LIMIT_REDIS_DB", 0),
			ShareResolveRate:    getenvFloat("RATE_LIMIT_SHARE_RESOLVE_RATE", 1),
			ShareResolveBurst:   getenvInt("RATE_LIMIT_SHARE_RESOLVE_BURST", 30),
			ConfirmPaymentRate:  getenvFloat("RATE_LIMIT_CONFIRM_RATE", 0.2),
			ConfirmPaymentBurst: getenvInt("RATE_LIMIT_CONFIRM_BURST", 5),
		},
	}

	return cfg
}

// PaymentSimulationEnabled reports whether the simulated confirm-payment
// operation may run at all.
func (c Config) PaymentSimulationEnabled() bool {
	return c.PaymentMode == ModeSimulated && c.Environment != "production"
}

func defaultPaymentMode(environment string) string {
	if environment == "production" {
		return ModeLive
	}
	return ModeSimulated
}

func normalizePaymentMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ModeSimulated, "dev", "development", "simulation":
		return ModeSimulated
	default:
		return ModeLive
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail drivers
const (
	MailDriverSES = "ses"
	MailDriverLog = "log"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Mail     MailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port            string
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	TrustedProxies  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	AccessSecret           string
	RefreshSecret          string
	AccessTokenExpiry      time.Duration
	RefreshTokenExpiry     time.Duration
	PasswordRecoveryWindow time.Duration
	EmailValidationWindow  time.Duration
	EmailValidationEnabled bool
	ResendCooldown         time.Duration
	CleanupInterval        time.Duration
	RateLimit              int // requests per minute per IP on credential endpoints
	TimingBaseDelayMs      int
	TimingRandomDelayMs    int
}

type MailConfig struct {
	Driver  string
	From    string
	Region  string
	BaseURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "meular"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             env,
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			AllowedOrigins:  parseAllowedOrigins(env),
			TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			AccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret:          getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:      getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry:     getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			PasswordRecoveryWindow: time.Duration(getEnvAsInt("PASSWORD_RECOVERY_WINDOW_MINUTES", 30)) * time.Minute,
			EmailValidationWindow:  time.Duration(getEnvAsInt("EMAIL_VALIDATION_WINDOW_DAYS", 7)) * 24 * time.Hour,
			EmailValidationEnabled: getEnvAsBool("EMAIL_VALIDATION_ENABLED", true),
			ResendCooldown:         getEnvAsDuration("EMAIL_RESEND_COOLDOWN", 5*time.Minute),
			CleanupInterval:        getEnvAsDuration("CLEANUP_INTERVAL", 1*time.Hour),
			RateLimit:              getEnvAsInt("AUTH_RATE_LIMIT", 3),
			TimingBaseDelayMs:      getEnvAsInt("TIMING_DELAY_BASE_MS", 500),
			TimingRandomDelayMs:    getEnvAsInt("TIMING_DELAY_RANDOM_MS", 100),
		},
		Mail: MailConfig{
			Driver:  strings.ToLower(getEnv("MAIL_DRIVER", MailDriverSES)),
			From:    getEnv("MAIL_FROM", ""),
			Region:  getEnv("AWS_REGION", "us-east-1"),
			BaseURL: strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateJWTSecret("JWT_ACCESS_SECRET", c.Auth.AccessSecret, c.Server.Env); err != nil {
		return err
	}
	if err := validateJWTSecret("JWT_REFRESH_SECRET", c.Auth.RefreshSecret, c.Server.Env); err != nil {
		return err
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if c.Auth.PasswordRecoveryWindow <= 0 {
		return fmt.Errorf("PASSWORD_RECOVERY_WINDOW_MINUTES must be positive")
	}
	if c.Auth.EmailValidationWindow <= 0 {
		return fmt.Errorf("EMAIL_VALIDATION_WINDOW_DAYS must be positive")
	}
	if c.Auth.RateLimit <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}

	switch c.Mail.Driver {
	case MailDriverSES:
		if c.Mail.From == "" {
			return fmt.Errorf("MAIL_FROM is required for the ses mail driver")
		}
	case MailDriverLog:
		if c.Server.Env == "production" {
			return fmt.Errorf("MAIL_DRIVER=log is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver)
	}

	return nil
}

// validateJWTSecret enforces minimum security standards for a signing secret
func validateJWTSecret(name, secret, env string) error {
	if secret == "" {
		return fmt.Errorf("%s is required", name)
	}

	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}

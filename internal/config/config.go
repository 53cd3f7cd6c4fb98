package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	BackendMock     = "mock"
	BackendPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
	Cron         CronConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	DataBackend    string
	MockBusinessID string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

type PayrollConfig struct {
	PeriodDays      int
	AnchorDate      time.Time
	DeductionRate   decimal.Decimal
	WeeklyThreshold decimal.Decimal
}

type NotificationConfig struct {
	Workers   int
	QueueSize int
}

type CronConfig struct {
	Interval time.Duration
}

// Load reads configuration from the environment. A .env file is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var errs []error
	config := &Config{}

	config.App = AppConfig{
		Port:           envInt("APP_PORT", 8080, &errs),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		DataBackend:    getEnv("DATA_BACKEND", BackendMock),
		MockBusinessID: getEnv("MOCK_BUSINESS_ID", "demo-business"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            envInt("DB_PORT", 5432, &errs),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "smallbiz_hr"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(envInt("DB_MAX_CONNS", 0, &errs)),
		MaxConnLifetime: envDuration("DB_MAX_CONN_LIFETIME", 0, &errs),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET", ""),
		AccessExpiration: envDuration("JWT_ACCESS_TTL", time.Hour, &errs),
	}

	config.Payroll = PayrollConfig{
		PeriodDays:      envInt("PAYROLL_PERIOD_DAYS", 14, &errs),
		AnchorDate:      envDate("PAYROLL_ANCHOR_DATE", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), &errs),
		DeductionRate:   envDecimal("PAYROLL_DEDUCTION_RATE", decimal.Zero, &errs),
		WeeklyThreshold: envDecimal("PAYROLL_WEEKLY_OVERTIME_THRESHOLD", decimal.NewFromInt(40), &errs),
	}

	config.Notification = NotificationConfig{
		Workers:   envInt("NOTIFY_WORKERS", 2, &errs),
		QueueSize: envInt("NOTIFY_QUEUE_SIZE", 1000, &errs),
	}

	config.Cron = CronConfig{
		Interval: envDuration("CRON_INTERVAL", time.Hour, &errs),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.DataBackend {
	case BackendMock:
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when DATA_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendMock, BackendPostgres, c.App.DataBackend)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Payroll.PeriodDays <= 0 {
		return fmt.Errorf("PAYROLL_PERIOD_DAYS must be positive")
	}
	if c.Payroll.DeductionRate.IsNegative() || c.Payroll.DeductionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_DEDUCTION_RATE must be in [0, 1)")
	}
	if !c.Payroll.WeeklyThreshold.IsPositive() {
		return fmt.Errorf("PAYROLL_WEEKLY_OVERTIME_THRESHOLD must be positive")
	}
	if c.Cron.Interval <= 0 {
		return fmt.Errorf("CRON_INTERVAL must be positive")
	}
	return nil
}

// Location returns the business timezone used for calendar-day and week boundaries.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func envInt(key string, fallback int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func envDate(key string, fallback time.Time, errs *[]error) time.Time {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func envDecimal(key string, fallback decimal.Decimal, errs *[]error) decimal.Decimal {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

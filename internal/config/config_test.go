package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, BackendMock, cfg.App.DataBackend)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 14, cfg.Payroll.PeriodDays)
	assert.Equal(t, time.Monday, cfg.Payroll.AnchorDate.Weekday())
	assert.True(t, cfg.Payroll.WeeklyThreshold.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_TIMEZONE", "America/Chicago")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PAYROLL_DEDUCTION_RATE", "0.15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.Payroll.DeductionRate.Equal(decimal.RequireFromString("0.15")))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad backend", map[string]string{"JWT_SECRET": "s", "DATA_BACKEND": "sqlite"}},
		{"postgres without password", map[string]string{"JWT_SECRET": "s", "DATA_BACKEND": "postgres"}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "APP_PORT": "eighty"}},
		{"bad timezone", map[string]string{"JWT_SECRET": "s", "APP_TIMEZONE": "Mars/Base"}},
		{"zero period", map[string]string{"JWT_SECRET": "s", "PAYROLL_PERIOD_DAYS": "0"}},
		{"deduction too high", map[string]string{"JWT_SECRET": "s", "PAYROLL_DEDUCTION_RATE": "1.5"}},
		{"bad anchor", map[string]string{"JWT_SECRET": "s", "PAYROLL_ANCHOR_DATE": "01/01/2024"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "hr", Password: "pw", Name: "smallbiz_hr", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://hr:pw@db:5432/smallbiz_hr?sslmode=disable", cfg.DatabaseURL())
}

package config

import (
	"bytes"
	"log/slog"
	"net/netip"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{
		"PORT":                 "9000",
		"JWT_EXPIRY":           "1h",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"RUN_MIGRATIONS":       "false",
		"EMAIL_PROVIDER":       "ses",
		"EMAIL_FROM_ADDRESS":   "noreply@example.com",
		"LOGIN_RATE_LIMIT":     "0.5",
		"TRUSTED_PROXIES":      "10.0.0.0/8,192.0.2.1/32",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "noreply@example.com", cfg.Email.FromAddress)
	assert.InDelta(t, 0.5, cfg.LoginRateLimit, 1e-9)
	assert.Equal(t, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("192.0.2.1/32")}, cfg.TrustedProxies)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "dev secret in production", env: map[string]string{"GO_ENV": "production"}, want: "JWT_SECRET"},
		{name: "bad duration", env: map[string]string{"JWT_EXPIRY": "soon"}, want: "parsing config"},
		{name: "non-positive expiry", env: map[string]string{"JWT_EXPIRY": "0s"}, want: "JWT_EXPIRY"},
		{name: "bad trusted proxy", env: map[string]string{"TRUSTED_PROXIES": "10.0.0.1"}, want: "parsing config"},
		{name: "zero burst", env: map[string]string{"LOGIN_RATE_BURST": "0"}, want: "LOGIN_RATE_BURST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(env.Options{Environment: tt.env})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_ProductionWithSecret(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{"GO_ENV": "production", "JWT_SECRET": "a-real-secret"}})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestParseClient(t *testing.T) {
	cfg, err := parseClient(env.Options{Environment: map[string]string{"EVENTCTL_TOKEN_FILE": "/tmp/tok"}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, "/tmp/tok", cfg.TokenFile)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err = parseClient(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "token", filepath.Base(cfg.TokenFile))
	assert.Equal(t, "eventctl", filepath.Base(filepath.Dir(cfg.TokenFile)))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "production logs are JSON")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, "development", "debug").Debug("dbg")
	assert.Contains(t, buf.String(), "msg=dbg")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

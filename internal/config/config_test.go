package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerConfig_Defaults(t *testing.T) {
	cfg, err := parseServerConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, []string{"1s", "3s", "5s"}, cfg.RetryDelays)
	assert.Zero(t, cfg.RateLimit)
}

func TestParseServerConfig_Flags(t *testing.T) {
	cfg, err := parseServerConfig([]string{
		"-a", ":9090",
		"--private-key", "/etc/ct/key.pem",
		"-k", "secret",
		"--ratelimit", "2.5",
		"--retry-delays", "2s",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "/etc/ct/key.pem", cfg.PrivateKeyPath)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.Equal(t, 2.5, cfg.RateLimit)

	delays, err := cfg.GetRetryDelaysAsDuration()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, delays)
}

func TestParseServerConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: ":7000"
log_level: debug
private_key: /from/file.pem
database_dsn: postgres://file
`), 0o600))

	t.Setenv("DATABASE_DSN", "postgres://env")

	cfg, err := parseServerConfig([]string{"--config", path, "-g", "warn"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ServerAddr, "file over default")
	assert.Equal(t, "warn", cfg.LogLevel, "flag over file")
	assert.Equal(t, "/from/file.pem", cfg.PrivateKeyPath)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN, "env over file")
	assert.Equal(t, "migrations", cfg.MigrationsPath, "default kept")
}

func TestParseServerConfig_Errors(t *testing.T) {
	_, err := parseServerConfig([]string{"--no-such-flag"})
	assert.Error(t, err)

	_, err = parseServerConfig([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("address: [unterminated"), 0o600))
	_, err = parseServerConfig([]string{"--config", bad})
	assert.Error(t, err)

	cfg := &ServerFlags{RetryDelays: []string{"soon"}}
	_, err = cfg.GetRetryDelaysAsDuration()
	assert.Error(t, err)
}

func TestParseMonitorConfig(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "30")

	cfg, err := parseMonitorConfig([]string{"-a", "http://log.example", "-k", "pub.pem"})
	require.NoError(t, err)

	assert.Equal(t, "http://log.example", cfg.ServerAddr)
	assert.Equal(t, "pub.pem", cfg.PublicKeyPath)
	assert.Equal(t, 30*time.Second, cfg.PollDuration())

	delays, err := cfg.GetRetryDelaysAsDuration()
	require.NoError(t, err)
	assert.Len(t, delays, 3)
}

func TestServerFlags_PoolOptions(t *testing.T) {
	cfg, err := parseServerConfig([]string{"--db-max-conns", "25", "--db-connect-timeout", "750ms"})
	require.NoError(t, err)

	opts, err := cfg.PoolOptions()
	require.NoError(t, err)
	assert.Equal(t, int32(25), opts.MaxConns)
	assert.Equal(t, int32(2), opts.MinConns)
	assert.Equal(t, 750*time.Millisecond, opts.ConnectTimeout)

	cfg.DBConnTimeout = "soon"
	_, err = cfg.PoolOptions()
	assert.Error(t, err)
}

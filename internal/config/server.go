package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config/db"
	"github.com/spf13/pflag"
)

type ServerFlags struct {
	ConfigFile     string   `env:"CONFIG" yaml:"-"`
	ServerAddr     string   `env:"ADDRESS" yaml:"address"`
	LogLevel       string   `env:"LOGLEVEL" yaml:"log_level"`
	PrivateKeyPath string   `env:"PRIVATE_KEY" yaml:"private_key"`
	DatabaseDSN    string   `env:"DATABASE_DSN" yaml:"database_dsn"`
	MigrationsPath string   `env:"MIGRATIONS_PATH" yaml:"migrations_path"`
	DBMaxConns     int      `env:"DB_MAX_CONNS" yaml:"db_max_conns"`
	DBMinConns     int      `env:"DB_MIN_CONNS" yaml:"db_min_conns"`
	DBConnTimeout  string   `env:"DB_CONNECT_TIMEOUT" yaml:"db_connect_timeout"`
	StoragePath    string   `env:"FILE_STORAGE_PATH" yaml:"file_storage_path"`
	StoreInterval  int      `env:"STORE_INTERVAL" yaml:"store_interval"`
	Restore        bool     `env:"RESTORE" yaml:"restore"`
	AuditFile      string   `env:"AUDIT_FILE" yaml:"audit_file"`
	AuditURL       string   `env:"AUDIT_URL" yaml:"audit_url"`
	SecretKey      string   `env:"KEY" yaml:"key"`
	RateLimit      float64  `env:"RATE_LIMIT" yaml:"rate_limit"`
	RateBurst      int      `env:"RATE_BURST" yaml:"rate_burst"`
	MaxRetries     int      `env:"MAX_RETRIES" yaml:"max_retries"`
	RetryDelays    []string `env:"RETRY_DELAYS" yaml:"retry_delays"`
}

func ParseServerConfig() (*ServerFlags, error) {
	return parseServerConfig(os.Args[1:])
}

func parseServerConfig(args []string) (*ServerFlags, error) {
	return load("server", args, defaultServerFlags, bindServerFlags,
		func(c *ServerFlags) string { return c.ConfigFile })
}

func defaultServerFlags() *ServerFlags {
	return &ServerFlags{
		ServerAddr:     ":8080",
		LogLevel:       "info",
		MigrationsPath: "migrations",
		DBMaxConns:     10,
		DBMinConns:     2,
		DBConnTimeout:  "5s",
		StoreInterval:  300,
		Restore:        true,
		RateBurst:      1,
		MaxRetries:     3,
		RetryDelays:    []string{"1s", "3s", "5s"},
	}
}

func bindServerFlags(flags *pflag.FlagSet, cfg *ServerFlags) {
	flags.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "Path to YAML config file")
	flags.StringVarP(&cfg.ServerAddr, "address", "a", cfg.ServerAddr, "HTTP listen address")
	flags.StringVarP(&cfg.LogLevel, "loglevel", "g", cfg.LogLevel, "Logger level")
	flags.StringVarP(&cfg.PrivateKeyPath, "private-key", "p", cfg.PrivateKeyPath, "Path to the log's PEM private key")
	flags.StringVarP(&cfg.DatabaseDSN, "database_dsn", "d", cfg.DatabaseDSN, "DSN string for db connection")
	flags.StringVar(&cfg.MigrationsPath, "migrations", cfg.MigrationsPath, "Directory with SQL migrations")
	flags.IntVar(&cfg.DBMaxConns, "db-max-conns", cfg.DBMaxConns, "Maximum database pool connections")
	flags.IntVar(&cfg.DBMinConns, "db-min-conns", cfg.DBMinConns, "Minimum idle database pool connections")
	flags.StringVar(&cfg.DBConnTimeout, "db-connect-timeout", cfg.DBConnTimeout, "Database connect timeout")
	flags.StringVarP(&cfg.StoragePath, "file", "f", cfg.StoragePath, "Snapshot file for the in-memory store, empty disables it")
	flags.IntVarP(&cfg.StoreInterval, "interval", "i", cfg.StoreInterval, "Snapshot interval in seconds, 0 writes on every change")
	flags.BoolVarP(&cfg.Restore, "restore", "r", cfg.Restore, "Load the snapshot file on startup")
	flags.StringVar(&cfg.AuditFile, "audit-file", cfg.AuditFile, "Append audit events to this file")
	flags.StringVar(&cfg.AuditURL, "audit-url", cfg.AuditURL, "POST audit events to this URL")
	flags.StringVarP(&cfg.SecretKey, "key", "k", cfg.SecretKey, "Shared secret for HashSHA256 request authentication")
	flags.Float64VarP(&cfg.RateLimit, "ratelimit", "l", cfg.RateLimit, "Signing requests per second, 0 disables limiting")
	flags.IntVar(&cfg.RateBurst, "rateburst", cfg.RateBurst, "Signing request burst size")
	flags.IntVarP(&cfg.MaxRetries, "max-retries", "m", cfg.MaxRetries, "Maximum number of storage retry attempts")
	flags.StringArrayVarP(&cfg.RetryDelays, "retry-delays", "s", cfg.RetryDelays, "Retry delays between attempts")
}

// PoolOptions converts the database pool settings.
func (c *ServerFlags) PoolOptions() (db.PoolOptions, error) {
	opts := db.PoolOptions{
		MaxConns: int32(c.DBMaxConns),
		MinConns: int32(c.DBMinConns),
	}
	if c.DBConnTimeout != "" {
		timeout, err := time.ParseDuration(c.DBConnTimeout)
		if err != nil {
			return db.PoolOptions{}, fmt.Errorf("invalid db connect timeout %q: %w", c.DBConnTimeout, err)
		}
		opts.ConnectTimeout = timeout
	}
	return opts, nil
}

func (c *ServerFlags) GetRetryDelaysAsDuration() ([]time.Duration, error) {
	return parseDurations(c.RetryDelays)
}

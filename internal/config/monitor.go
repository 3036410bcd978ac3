package config

import (
	"os"
	"time"

	"github.com/spf13/pflag"
)

type MonitorFlags struct {
	ConfigFile    string   `env:"CONFIG" yaml:"-"`
	ServerAddr    string   `env:"ADDRESS" yaml:"address"`
	LogLevel      string   `env:"LOGLEVEL" yaml:"log_level"`
	PublicKeyPath string   `env:"PUBLIC_KEY" yaml:"public_key"`
	PollInterval  int      `env:"POLL_INTERVAL" yaml:"poll_interval"`
	MaxRetries    int      `env:"MAX_RETRIES" yaml:"max_retries"`
	RetryDelays   []string `env:"RETRY_DELAYS" yaml:"retry_delays"`
}

func ParseMonitorConfig() (*MonitorFlags, error) {
	return parseMonitorConfig(os.Args[1:])
}

func parseMonitorConfig(args []string) (*MonitorFlags, error) {
	return load("monitor", args, defaultMonitorFlags, bindMonitorFlags,
		func(c *MonitorFlags) string { return c.ConfigFile })
}

func defaultMonitorFlags() *MonitorFlags {
	return &MonitorFlags{
		ServerAddr:   "http://localhost:8080",
		LogLevel:     "info",
		PollInterval: 10,
		MaxRetries:   3,
		RetryDelays:  []string{"1s", "3s", "5s"},
	}
}

func bindMonitorFlags(flags *pflag.FlagSet, cfg *MonitorFlags) {
	flags.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "Path to YAML config file")
	flags.StringVarP(&cfg.ServerAddr, "address", "a", cfg.ServerAddr, "Log server base URL")
	flags.StringVarP(&cfg.LogLevel, "loglevel", "g", cfg.LogLevel, "Logger level")
	flags.StringVarP(&cfg.PublicKeyPath, "public-key", "k", cfg.PublicKeyPath, "Path to the log's PEM public key")
	flags.IntVarP(&cfg.PollInterval, "poll", "p", cfg.PollInterval, "STH poll interval in sec")
	flags.IntVarP(&cfg.MaxRetries, "max-retries", "m", cfg.MaxRetries, "Maximum number of retry attempts")
	flags.StringArrayVarP(&cfg.RetryDelays, "retry-delays", "s", cfg.RetryDelays, "Retry delays between attempts")
}

func (c *MonitorFlags) GetRetryDelaysAsDuration() ([]time.Duration, error) {
	return parseDurations(c.RetryDelays)
}

func (c *MonitorFlags) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

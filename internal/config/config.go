// Package config assembles process configuration from defaults, an optional
// YAML file, command-line flags and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// load runs the two-pass parse: flags are read once to find the config file,
// then re-read on top of the file contents so that flags win.
func load[T any](
	name string,
	args []string,
	defaults func() *T,
	bind func(*pflag.FlagSet, *T),
	configFile func(*T) string,
) (*T, error) {
	cfg := defaults()
	if err := parseFlags(name, args, cfg, bind); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	path := configFile(cfg)
	if path == "" {
		return cfg, nil
	}

	cfg = defaults()
	if err := readFile(path, cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(name, args, cfg, bind); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

func parseFlags[T any](name string, args []string, cfg *T, bind func(*pflag.FlagSet, *T)) error {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	bind(flags, cfg)

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	for i := 0; i < flags.NArg(); i++ {
		arg := flags.Arg(i)
		if len(arg) > 0 && arg[0] == '-' {
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return nil
}

func readFile[T any](path string, cfg *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

func parseDurations(values []string) ([]time.Duration, error) {
	delays := make([]time.Duration, len(values))
	for i, s := range values {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid duration format '%s': %w", s, err)
		}
		delays[i] = d
	}
	return delays, nil
}

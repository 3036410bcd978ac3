// Command monitor polls a log's get-sth endpoint and checks every tree head
// against the log's public key.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/keys"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logger"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/monitor"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/retry"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.ParseMonitorConfig()
	if err != nil {
		return err
	}

	zl, err := logger.Initialize(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", cfg.PollInterval)
	}

	pub, err := keys.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return err
	}

	delays, err := cfg.GetRetryDelaysAsDuration()
	if err != nil {
		return err
	}

	client := monitor.NewClient(cfg.ServerAddr, retry.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		Delays:     delays,
	}, zl)
	m := monitor.NewMonitor(client, logsigner.NewVerifier(pub, zl), zl)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	zl.Info("monitor started",
		zap.String("log", cfg.ServerAddr),
		zap.Duration("poll", cfg.PollDuration()),
	)
	return m.Run(ctx, cfg.PollDuration())
}

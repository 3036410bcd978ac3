package main

import (
	"context"
	"log"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logger"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/server"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.ParseServerConfig()
	if err != nil {
		return err
	}

	zl, err := logger.Initialize(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()

	zl.Info("starting log server",
		zap.String("addr", cfg.ServerAddr),
		zap.Bool("database", cfg.DatabaseDSN != ""),
	)

	app, err := server.NewApp(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

// Package server wires the log's signer, storage and HTTP API together and
// runs them until shutdown.
package server

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config/db"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/keys"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/observers"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/repository/dbstorage"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/repository/memstorage"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/retry"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout    = 30 * time.Second
	activeDrainTimeout = 10 * time.Second
)

type Server struct {
	cfg       *config.ServerFlags
	log       *zap.Logger
	storage   service.Storage
	resources *ResourceGroup
	handler   http.Handler

	activeRequests sync.WaitGroup
	shutdownCh     chan struct{}
}

// NewApp loads the signing key, opens storage and builds the router. The
// caller must Close the returned server.
func NewApp(ctx context.Context, cfg *config.ServerFlags, log *zap.Logger) (*Server, error) {
	a := &Server{
		cfg:        cfg,
		log:        log,
		resources:  NewResourceGroup(log),
		shutdownCh: make(chan struct{}),
	}

	key, err := a.loadKey()
	if err != nil {
		return nil, err
	}

	storage, err := a.storageInitializer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.storage = storage

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	publisher, err := a.setupObservers()
	if err != nil {
		a.Close()
		return nil, err
	}

	logService, err := service.NewLogService(
		logsigner.NewSigner(key, log),
		logsigner.NewVerifier(key.Public(), log),
		storage,
		log,
		service.WithMetrics(service.NewMetrics(reg)),
		service.WithPublisher(publisher),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("log service initialization error: %w", err)
	}

	logID := logService.LogID()
	log.Info("log initialized", zap.Binary("log_id", logID[:]))

	a.handler = handler.SetupHandler(
		logService,
		storage,
		reg,
		&a.activeRequests,
		log,
		a.shutdownCh,
		*cfg,
	)
	return a, nil
}

func (a *Server) Handler() http.Handler {
	return a.handler
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until ctx is done, then
// drains in-flight requests.
func (a *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	listener, err := net.Listen("tcp", a.cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.ServerAddr, err)
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("server starting", zap.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("graceful shutdown initiated")
		close(a.shutdownCh)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("server shutdown failed", zap.Error(err))
		}
		a.waitActiveRequests()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Info("server stopped gracefully")
	return nil
}

func (a *Server) waitActiveRequests() {
	waitDone := make(chan struct{})
	go func() {
		a.activeRequests.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		a.log.Info("all requests completed")
	case <-time.After(activeDrainTimeout):
		a.log.Warn("timeout waiting for requests")
	}
}

func (a *Server) Close() error {
	return a.resources.CloseAll()
}

func (a *Server) loadKey() (crypto.Signer, error) {
	if a.cfg.PrivateKeyPath == "" {
		a.log.Warn("no private key configured, signing with an ephemeral key")
		key, err := keys.GenerateP256()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		return key, nil
	}

	key, err := keys.LoadPrivateKey(a.cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return key, nil
}

func (a *Server) storageInitializer(ctx context.Context) (service.Storage, error) {
	if a.cfg.DatabaseDSN == "" {
		a.log.Info("no database DSN provided, using in-memory storage")
		storage, err := memstorage.NewMemStorage(a.cfg, a.log)
		if err != nil {
			return nil, fmt.Errorf("memory storage initialization error: %w", err)
		}
		a.resources.Register(storage)
		return storage, nil
	}

	poolOpts, err := a.cfg.PoolOptions()
	if err != nil {
		return nil, err
	}

	dbase, err := db.NewDatabase(ctx, a.cfg.DatabaseDSN, poolOpts, a.log)
	if err != nil {
		return nil, err
	}

	migrator := db.NewMigrator(a.cfg.DatabaseDSN, a.cfg.MigrationsPath, a.log)
	if err := migrator.Up(); err != nil {
		dbase.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	delays, err := a.cfg.GetRetryDelaysAsDuration()
	if err != nil {
		dbase.Close()
		return nil, err
	}

	storage := dbstorage.NewDBStorage(dbase.Pool, retry.RetryConfig{
		MaxRetries: a.cfg.MaxRetries,
		Delays:     delays,
	}, a.log)
	a.resources.Register(storage)
	return storage, nil
}

func (a *Server) setupObservers() (*observers.EventPublisherImpl, error) {
	publisher := observers.NewEventPublisher()
	publisher.Register(observers.NewEventLogger(a.log))

	if a.cfg.AuditFile != "" {
		fileObserver, err := observers.NewFileObserver(a.cfg.AuditFile, a.log)
		if err != nil {
			return nil, fmt.Errorf("audit file initialization error: %w", err)
		}
		publisher.Register(fileObserver)
		a.resources.Register(fileObserver)
	}

	if a.cfg.AuditURL != "" {
		httpObserver := observers.NewHTTPObserver(a.cfg.AuditURL, a.log)
		publisher.Register(httpObserver)
		a.resources.Register(httpObserver)
	}

	return publisher, nil
}

package handler

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler/ctlog"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler/middlewares"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler/middlewares/hashauth"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler/ping"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service/hmacservice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupHandler builds the log's router. Write routes are rate limited and,
// with a secret configured, require a HashSHA256 body signature.
func SetupHandler(
	logService ctlog.LogService,
	storage interface{},
	gatherer prometheus.Gatherer,
	activeRequests *sync.WaitGroup,
	log *zap.Logger,
	shutdownChan <-chan struct{},
	cfg config.ServerFlags,
) http.Handler {
	r := chi.NewRouter()

	setupMiddlewares(r, activeRequests, shutdownChan, log)

	var hasher hashauth.Hasher
	if cfg.SecretKey != "" {
		hasher = hmacservice.NewHMACSHA256(cfg.SecretKey)
	}

	setupPingRoutes(r, ping.NewPingHandler(log, storage))
	setupMetricsRoutes(r, gatherer)
	setupCTRoutes(r, ctlog.NewCTLogHandler(logService, log), hasher, cfg, log)

	return r
}

func setupMiddlewares(
	r chi.Router,
	activeRequests *sync.WaitGroup,
	shutdownChan <-chan struct{},
	log *zap.Logger,
) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.TrackActiveRequests(activeRequests, shutdownChan))
	r.Use(middlewares.Decompress(log))
	r.Use(middleware.Compress(5, "application/json"))
}

func setupPingRoutes(r chi.Router, pingHandler *ping.PingHandler) {
	r.Get("/ping", pingHandler.GetPing)
}

func setupMetricsRoutes(r chi.Router, gatherer prometheus.Gatherer) {
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func setupCTRoutes(r chi.Router, h *ctlog.CTLogHandler, hasher hashauth.Hasher, cfg config.ServerFlags, log *zap.Logger) {
	r.Route("/ct/v1", func(r chi.Router) {
		r.Get("/get-sth", h.GetSTH)
		r.Post("/verify-sct", h.VerifySCT)
		r.Post("/verify-sth", h.VerifySTH)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RateLimiter(cfg.RateLimit, cfg.RateBurst, log))
			r.Use(hashauth.ValidateRequest(hasher, ctlog.MaxBodyBytes, log))
			r.Use(hashauth.SignResponse(hasher))

			r.Post("/add-chain", h.AddChain)
			r.Post("/sth", h.PublishSTH)
		})
	})
}

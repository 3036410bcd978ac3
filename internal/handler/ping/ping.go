package ping

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type PingHandler struct {
	log     *zap.Logger
	storage interface{}
}

// NewPingHandler reports on storage. Storage that does not implement
// HealthChecker is assumed to be always available.
func NewPingHandler(log *zap.Logger, storage interface{}) *PingHandler {
	return &PingHandler{
		log:     log,
		storage: storage,
	}
}

func (h *PingHandler) GetPing(w http.ResponseWriter, r *http.Request) {
	healthChecker, ok := h.storage.(HealthChecker)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := healthChecker.Ping(ctx); err != nil {
		h.log.Warn("storage ping failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

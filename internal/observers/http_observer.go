package observers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"go.uber.org/zap"
)

type HTTPObserver struct {
	url    string
	log    *zap.Logger
	client *http.Client
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewHTTPObserver(url string, log *zap.Logger) *HTTPObserver {
	return &HTTPObserver{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  false,
				DisableKeepAlives:   false,
				MaxIdleConnsPerHost: 10,
			},
		},
		log: log,
	}
}

// OnLogEvent posts event to the webhook without blocking the caller.
func (h *HTTPObserver) OnLogEvent(event model.LogEvent) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.send(event)
	}()
}

// Close waits for in-flight deliveries.
func (h *HTTPObserver) Close() error {
	h.wg.Wait()
	return nil
}

func (h *HTTPObserver) send(event model.LogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	jsonData, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.url, bytes.NewBuffer(jsonData))
	if err != nil {
		h.log.Error("failed to create request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("failed to deliver audit event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		h.log.Warn("failed to deliver audit event", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
	} else {
		h.log.Debug("audit event delivered", zap.Int("status", resp.StatusCode))
	}
}

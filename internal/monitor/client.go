package monitor

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/retry"
	"go.uber.org/zap"
)

// StatusError is a non-2xx response from the log.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL           string
	httpClient        *http.Client
	useGzip           bool
	minSizeToCompress int
	retry             retry.RetryConfig
	log               *zap.Logger
}

func NewClient(baseURL string, retryCfg retry.RetryConfig, log *zap.Logger) *Client {
	if retryCfg.IsRetryableFn == nil {
		retryCfg.IsRetryableFn = isRetryable
	}
	if retryCfg.OnRetry == nil {
		retryCfg.OnRetry = func(attempt int, err error) {
			log.Warn("retrying request", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return &Client{
		baseURL: normalizeURL(baseURL),
		httpClient: &http.Client{
			Timeout: time.Second * 20,
		},
		useGzip:           true,
		minSizeToCompress: 256,
		retry:             retryCfg,
		log:               log,
	}
}

func normalizeURL(url string) string {
	url = strings.TrimRight(url, "/")
	if strings.HasPrefix(url, ":") {
		url = "localhost" + url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return url
}

// Get fetches endpoint and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	return c.doWithRetry(ctx, http.MethodGet, endpoint, nil, out)
}

// Post sends body as JSON and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.doWithRetry(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling payload failed: %w", err)
		}
		payload = data
	}

	var respBody []byte
	err := retry.Do(ctx, c.retry, func() error {
		data, err := c.do(ctx, method, endpoint, payload)
		if err != nil {
			return err
		}
		respBody = data
		return nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response failed: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	compressed := false
	if payload != nil {
		if c.useGzip && len(payload) >= c.minSizeToCompress {
			data, err := compress(payload)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(data)
			compressed = true
		} else {
			reader = bytes.NewReader(payload)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if compressed {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("compressing data failed: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer failed: %w", err)
	}
	return buf.Bytes(), nil
}

// isRetryable retries network failures and 5xx responses.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return retry.IsNetworkError(err)
}

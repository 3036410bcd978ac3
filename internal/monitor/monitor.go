// Package monitor watches a log's published tree heads and checks each one
// against the log's public key.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"go.uber.org/zap"
)

var (
	ErrBadSignature       = errors.New("tree head signature does not verify")
	ErrTreeShrunk         = errors.New("tree size decreased")
	ErrTimestampRegressed = errors.New("tree head timestamp went backwards")
)

const (
	getSTHPath    = "/ct/v1/get-sth"
	verifySTHPath = "/ct/v1/verify-sth"
)

// Monitor keeps the last tree head it accepted and checks every new one
// against it.
type Monitor struct {
	client   *Client
	verifier *logsigner.Verifier
	log      *zap.Logger
	last     *model.GetSTHResponse
}

func NewMonitor(client *Client, verifier *logsigner.Verifier, log *zap.Logger) *Monitor {
	return &Monitor{
		client:   client,
		verifier: verifier,
		log:      log,
	}
}

// Last returns the most recently accepted tree head, or nil.
func (m *Monitor) Last() *model.GetSTHResponse {
	return m.last
}

// Check fetches the current STH, verifies its signature locally and asks the
// log to verify it too. A log that disagrees with the local result is logged
// but not treated as a failure.
func (m *Monitor) Check(ctx context.Context) (*model.GetSTHResponse, error) {
	var sth model.GetSTHResponse
	if err := m.client.Get(ctx, getSTHPath, &sth); err != nil {
		return nil, fmt.Errorf("failed to fetch sth: %w", err)
	}

	result := m.verifier.VerifySTH(sth.Timestamp, sth.TreeSize, sth.SHA256RootHash, sth.TreeHeadSignature)
	m.crossCheck(ctx, &sth, result)

	if result != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSignature, logsigner.ResultName(result))
	}

	if prev := m.last; prev != nil {
		if sth.TreeSize < prev.TreeSize {
			return nil, fmt.Errorf("%w: %d < %d", ErrTreeShrunk, sth.TreeSize, prev.TreeSize)
		}
		if sth.Timestamp < prev.Timestamp {
			return nil, fmt.Errorf("%w: %d < %d", ErrTimestampRegressed, sth.Timestamp, prev.Timestamp)
		}
	}

	m.last = &sth
	return &sth, nil
}

func (m *Monitor) crossCheck(ctx context.Context, sth *model.GetSTHResponse, local error) {
	var remote model.VerifyResponse
	if err := m.client.Post(ctx, verifySTHPath, sth, &remote); err != nil {
		m.log.Warn("remote verification unavailable", zap.Error(err))
		return
	}
	if want := logsigner.ResultName(local); remote.Result != want {
		m.log.Warn("log disagrees with local verification",
			zap.String("local", want),
			zap.String("remote", remote.Result),
			zap.Uint64("tree_size", sth.TreeSize),
		)
	}
}

// Run checks immediately and then every interval until ctx is done. Check
// failures are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.checkAndLog(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) checkAndLog(ctx context.Context) {
	sth, err := m.Check(ctx)
	switch {
	case errors.Is(err, context.Canceled):
	case err != nil:
		m.log.Error("sth check failed", zap.Error(err))
	default:
		m.log.Info("sth verified",
			zap.Uint64("tree_size", sth.TreeSize),
			zap.Uint64("timestamp", sth.Timestamp),
		)
	}
}

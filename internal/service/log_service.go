// Package service issues SCTs and publishes STHs for the log, persisting
// what it signs.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/keys"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"go.uber.org/zap"
)

var ErrTreeShrunk = errors.New("tree size is smaller than the latest published tree head")

// ErrClockBeforeEpoch means the clock returned a time that cannot be
// expressed as a positive CT timestamp.
var ErrClockBeforeEpoch = errors.New("clock is at or before the unix epoch")

type LogService struct {
	signer   *logsigner.Signer
	verifier *logsigner.Verifier
	storage  Storage
	metrics  *Metrics
	events   EventPublisher
	log      *zap.Logger
	logID    [32]byte
	now      func() time.Time

	// serializes STH publication so timestamps and sizes stay monotonic
	publishMu sync.Mutex
}

type Option func(*LogService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LogService) { s.now = now }
}

func WithMetrics(m *Metrics) Option {
	return func(s *LogService) { s.metrics = m }
}

// WithPublisher sends an audit event for every SCT issued and STH published.
func WithPublisher(p EventPublisher) Option {
	return func(s *LogService) { s.events = p }
}

func NewLogService(
	signer *logsigner.Signer,
	verifier *logsigner.Verifier,
	storage Storage,
	log *zap.Logger,
	opts ...Option,
) (*LogService, error) {
	logID, err := keys.LogID(signer.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to compute log id: %w", err)
	}

	s := &LogService{
		signer:   signer,
		verifier: verifier,
		storage:  storage,
		log:      log,
		logID:    logID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *LogService) LogID() [32]byte {
	return s.logID
}

// IssueSCT stamps the current time on a new SCT for entry, signs it and
// stores the result.
func (s *LogService) IssueSCT(ctx context.Context, entry *ct.LogEntry) (*ct.SignedCertificateTimestamp, error) {
	issuedAt := s.now()
	timestamp, err := ctTimestamp(issuedAt)
	if err != nil {
		return nil, err
	}

	sct := &ct.SignedCertificateTimestamp{
		Version:    ct.V1,
		LogID:      s.logID,
		Timestamp:  timestamp,
		Extensions: []byte{},
	}

	err = s.signer.SignSCTEntry(entry, sct)
	s.metrics.observeSign(kindSCT, err)
	if err != nil {
		return nil, err
	}

	rec := SCTRecord{
		ID:       uuid.New(),
		Entry:    *entry,
		SCT:      *sct,
		IssuedAt: issuedAt,
	}
	if err := s.storage.SaveSCT(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store sct: %w", err)
	}

	event := model.NewLogEvent(model.EventSCTIssued, issuedAt)
	event.ID = rec.ID.String()
	event.EntryType = entry.Type.String()
	event.Timestamp = sct.Timestamp
	s.publish(event)

	s.log.Debug("sct issued",
		zap.String("id", rec.ID.String()),
		zap.Stringer("entry_type", entry.Type),
		zap.Uint64("timestamp", sct.Timestamp),
	)
	return sct, nil
}

// PublishSTH signs a tree head for the given size and root. The tree may not
// shrink, and the timestamp is bumped past the previous one if the clock has
// not advanced.
func (s *LogService) PublishSTH(ctx context.Context, treeSize uint64, rootHash []byte) (*ct.SignedTreeHead, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	timestamp, err := ctTimestamp(s.now())
	if err != nil {
		return nil, err
	}

	latest, err := s.storage.LatestSTH(ctx)
	switch {
	case errors.Is(err, ErrNoTreeHead):
	case err != nil:
		return nil, fmt.Errorf("failed to load latest sth: %w", err)
	default:
		if treeSize < latest.TreeSize {
			return nil, ErrTreeShrunk
		}
		if timestamp <= latest.Timestamp {
			timestamp = latest.Timestamp + 1
		}
	}

	sth := &ct.SignedTreeHead{
		Version:        ct.V1,
		Timestamp:      timestamp,
		TreeSize:       treeSize,
		SHA256RootHash: rootHash,
	}

	err = s.signer.SignTreeHead(sth)
	s.metrics.observeSign(kindSTH, err)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveSTH(ctx, *sth); err != nil {
		return nil, fmt.Errorf("failed to store sth: %w", err)
	}

	event := model.NewLogEvent(model.EventSTHPublished, s.now())
	event.TreeSize = &sth.TreeSize
	event.Timestamp = sth.Timestamp
	s.publish(event)

	s.log.Info("sth published",
		zap.Uint64("tree_size", sth.TreeSize),
		zap.Uint64("timestamp", sth.Timestamp),
	)
	return sth, nil
}

func (s *LogService) LatestSTH(ctx context.Context) (*ct.SignedTreeHead, error) {
	sth, err := s.storage.LatestSTH(ctx)
	if err != nil {
		return nil, err
	}
	return &sth, nil
}

// VerifySCT checks a wire-encoded SCT signature issued by this log.
func (s *LogService) VerifySCT(timestamp uint64, entryType ct.LogEntryType, certificate, signature []byte) error {
	err := s.verifier.VerifySCT(timestamp, entryType, certificate, signature)
	s.metrics.observeVerify(kindSCT, err)
	return err
}

func (s *LogService) VerifySTH(timestamp, treeSize uint64, rootHash, signature []byte) error {
	err := s.verifier.VerifySTH(timestamp, treeSize, rootHash, signature)
	s.metrics.observeVerify(kindSTH, err)
	return err
}

func ctTimestamp(t time.Time) (uint64, error) {
	ms := t.UnixMilli()
	if ms <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrClockBeforeEpoch, t.UTC().Format(time.RFC3339Nano))
	}
	return uint64(ms), nil
}

func (s *LogService) publish(event model.LogEvent) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

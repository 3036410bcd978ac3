package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
)

//go:generate mockgen -destination=../mocks/storage_mock.go -package=mocks . Storage

var ErrNoTreeHead = errors.New("no tree head has been published")

// SCTRecord is an issued SCT together with the entry it covers.
type SCTRecord struct {
	ID       uuid.UUID
	Entry    ct.LogEntry
	SCT      ct.SignedCertificateTimestamp
	IssuedAt time.Time
}

type Storage interface {
	SaveSCT(ctx context.Context, rec SCTRecord) error
	SaveSTH(ctx context.Context, sth ct.SignedTreeHead) error
	// LatestSTH returns ErrNoTreeHead when nothing has been published.
	LatestSTH(ctx context.Context) (ct.SignedTreeHead, error)
	Close() error
}

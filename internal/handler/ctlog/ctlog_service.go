package ctlog

import (
	"context"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
)

//go:generate mockgen -destination=../../mocks/log_service_mock.go -package=mocks . LogService

// LogService issues and checks the log's signed objects.
type LogService interface {
	LogID() [32]byte
	IssueSCT(ctx context.Context, entry *ct.LogEntry) (*ct.SignedCertificateTimestamp, error)
	PublishSTH(ctx context.Context, treeSize uint64, rootHash []byte) (*ct.SignedTreeHead, error)
	LatestSTH(ctx context.Context) (*ct.SignedTreeHead, error)
	VerifySCT(timestamp uint64, entryType ct.LogEntryType, certificate, signature []byte) error
	VerifySTH(timestamp, treeSize uint64, rootHash, signature []byte) error
}

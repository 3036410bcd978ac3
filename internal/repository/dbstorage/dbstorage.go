package dbstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/handler/ping"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/retry"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"go.uber.org/zap"
)

var _ service.Storage = (*dbstorage)(nil)
var _ ping.HealthChecker = (*dbstorage)(nil)

// querier is the part of *pgxpool.Pool the storage uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type dbstorage struct {
	db    querier
	retry retry.RetryConfig
	log   *zap.Logger
}

func NewDBStorage(db querier, retryCfg retry.RetryConfig, log *zap.Logger) *dbstorage {
	if retryCfg.IsRetryableFn == nil {
		retryCfg.IsRetryableFn = retry.IsRetryablePgError
	}
	storage := &dbstorage{
		db:    db,
		retry: retryCfg,
		log:   log,
	}
	if storage.retry.OnRetry == nil {
		storage.retry.OnRetry = func(attempt int, err error) {
			log.Warn("retrying database operation", zap.Int("attempt", attempt), zap.Error(err))
		}
	}
	return storage
}

func (db *dbstorage) SaveSCT(ctx context.Context, rec service.SCTRecord) error {
	query := `
		INSERT INTO sct_records
			(id, entry_type, certificate, chain, log_id, timestamp, hash_alg, sig_alg, signature, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	certificate, chain := entryColumns(&rec.Entry)
	sig := rec.SCT.Signature

	err := retry.Do(ctx, db.retry, func() error {
		_, err := db.db.Exec(ctx, query,
			rec.ID,
			int16(rec.Entry.Type),
			certificate,
			chain,
			rec.SCT.LogID[:],
			int64(rec.SCT.Timestamp),
			int16(sig.Algorithm.Hash),
			int16(sig.Algorithm.Signature),
			sig.Signature,
			rec.IssuedAt,
		)
		return err
	})
	if err != nil {
		db.log.Error("failed to save sct", zap.Error(err), zap.String("id", rec.ID.String()))
		return fmt.Errorf("failed to save sct: %w", err)
	}
	return nil
}

func (db *dbstorage) SaveSTH(ctx context.Context, sth ct.SignedTreeHead) error {
	query := `
		INSERT INTO tree_heads (tree_size, timestamp, root_hash, hash_alg, sig_alg, signature)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	sig := sth.TreeHeadSignature
	err := retry.Do(ctx, db.retry, func() error {
		_, err := db.db.Exec(ctx, query,
			int64(sth.TreeSize),
			int64(sth.Timestamp),
			sth.SHA256RootHash,
			int16(sig.Algorithm.Hash),
			int16(sig.Algorithm.Signature),
			sig.Signature,
		)
		return err
	})
	if err != nil {
		db.log.Error("failed to save sth", zap.Error(err), zap.Uint64("tree_size", sth.TreeSize))
		return fmt.Errorf("failed to save sth: %w", err)
	}
	return nil
}

func (db *dbstorage) LatestSTH(ctx context.Context) (ct.SignedTreeHead, error) {
	query := `
		SELECT tree_size, timestamp, root_hash, hash_alg, sig_alg, signature
		FROM tree_heads
		ORDER BY timestamp DESC
		LIMIT 1;
	`

	var (
		treeSize, timestamp int64
		hashAlg, sigAlg     int16
		sth                 ct.SignedTreeHead
	)
	err := retry.Do(ctx, db.retry, func() error {
		return db.db.QueryRow(ctx, query).Scan(
			&treeSize,
			&timestamp,
			&sth.SHA256RootHash,
			&hashAlg,
			&sigAlg,
			&sth.TreeHeadSignature.Signature,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return ct.SignedTreeHead{}, service.ErrNoTreeHead
	}
	if err != nil {
		return ct.SignedTreeHead{}, fmt.Errorf("failed to load latest sth: %w", err)
	}

	sth.Version = ct.V1
	sth.TreeSize = uint64(treeSize)
	sth.Timestamp = uint64(timestamp)
	sth.TreeHeadSignature.Algorithm = ct.SignatureAndHashAlgorithm{
		Hash:      ct.HashAlgorithm(hashAlg),
		Signature: ct.SignatureAlgorithm(sigAlg),
	}
	return sth, nil
}

func (db *dbstorage) Ping(ctx context.Context) error {
	if db == nil || db.db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.db.Ping(ctx)
}

func (db *dbstorage) Close() error {
	db.db.Close()
	return nil
}

func entryColumns(entry *ct.LogEntry) ([]byte, [][]byte) {
	switch {
	case entry.X509Entry != nil:
		return entry.X509Entry.LeafCertificate, nonNil(entry.X509Entry.CertificateChain)
	case entry.PrecertEntry != nil:
		return entry.PrecertEntry.PreCertificate, nonNil(entry.PrecertEntry.PrecertificateChain)
	}
	return nil, [][]byte{}
}

func nonNil(chain [][]byte) [][]byte {
	if chain == nil {
		return [][]byte{}
	}
	return chain
}

package dbstorage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/retry"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int16:
			*p = r.values[i].(int16)
		case *[]byte:
			*p = r.values[i].([]byte)
		}
	}
	return nil
}

type fakeDB struct {
	execErrs []error
	execArgs [][]interface{}
	row      fakeRow
	queries  int
	pingErr  error
	closed   bool
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execArgs = append(f.execArgs, args)
	if len(f.execErrs) > 0 {
		err := f.execErrs[0]
		f.execErrs = f.execErrs[1:]
		return nil, err
	}
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	f.queries++
	return f.row
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }
func (f *fakeDB) Close()                     { f.closed = true }

func newTestStorage(t *testing.T, db *fakeDB) *dbstorage {
	return NewDBStorage(db, retry.RetryConfig{MaxRetries: 2, Delays: []time.Duration{0}}, zaptest.NewLogger(t))
}

func TestDBStorage_SaveSCT(t *testing.T) {
	db := &fakeDB{}
	storage := newTestStorage(t, db)

	rec := service.SCTRecord{
		ID: uuid.New(),
		Entry: ct.LogEntry{
			Type:         ct.PrecertLogEntryType,
			PrecertEntry: &ct.PrecertChainEntry{PreCertificate: []byte("tbs")},
		},
		SCT: ct.SignedCertificateTimestamp{
			Timestamp: 42,
			Signature: ct.DigitallySigned{
				Algorithm: ct.SignatureAndHashAlgorithm{Hash: ct.SHA256, Signature: ct.ECDSA},
				Signature: []byte{1, 2},
			},
		},
		IssuedAt: time.Now(),
	}
	require.NoError(t, storage.SaveSCT(context.Background(), rec))

	require.Len(t, db.execArgs, 1)
	args := db.execArgs[0]
	assert.Equal(t, rec.ID, args[0])
	assert.Equal(t, int16(ct.PrecertLogEntryType), args[1])
	assert.Equal(t, []byte("tbs"), args[2])
	assert.Equal(t, [][]byte{}, args[3])
	assert.Equal(t, int64(42), args[5])
	assert.Equal(t, int16(ct.SHA256), args[6])
	assert.Equal(t, int16(ct.ECDSA), args[7])
}

func TestDBStorage_SaveSTH_RetriesTransientErrors(t *testing.T) {
	db := &fakeDB{execErrs: []error{
		&pgconn.PgError{Code: pgerrcode.ConnectionFailure},
		&pgconn.PgError{Code: pgerrcode.SerializationFailure},
	}}
	storage := newTestStorage(t, db)

	err := storage.SaveSTH(context.Background(), ct.SignedTreeHead{TreeSize: 3, SHA256RootHash: make([]byte, 32)})
	require.NoError(t, err)
	assert.Len(t, db.execArgs, 3)
}

func TestDBStorage_SaveSTH_PermanentError(t *testing.T) {
	permanent := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	db := &fakeDB{execErrs: []error{permanent}}
	storage := newTestStorage(t, db)

	err := storage.SaveSTH(context.Background(), ct.SignedTreeHead{})
	assert.ErrorIs(t, err, permanent)
	assert.Len(t, db.execArgs, 1)
}

func TestDBStorage_LatestSTH(t *testing.T) {
	root := make([]byte, 32)
	root[0] = 0xaa
	db := &fakeDB{row: fakeRow{values: []interface{}{
		int64(43), int64(1000), root, int16(ct.SHA256), int16(ct.ECDSA), []byte{0x30},
	}}}
	storage := newTestStorage(t, db)

	sth, err := storage.LatestSTH(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ct.SignedTreeHead{
		Version:        ct.V1,
		Timestamp:      1000,
		TreeSize:       43,
		SHA256RootHash: root,
		TreeHeadSignature: ct.DigitallySigned{
			Algorithm: ct.SignatureAndHashAlgorithm{Hash: ct.SHA256, Signature: ct.ECDSA},
			Signature: []byte{0x30},
		},
	}, sth)
}

func TestDBStorage_LatestSTH_Empty(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	storage := newTestStorage(t, db)

	_, err := storage.LatestSTH(context.Background())
	assert.ErrorIs(t, err, service.ErrNoTreeHead)
	assert.Equal(t, 1, db.queries)
}

func TestDBStorage_PingAndClose(t *testing.T) {
	db := &fakeDB{pingErr: errors.New("down")}
	storage := newTestStorage(t, db)

	assert.Error(t, storage.Ping(context.Background()))
	require.NoError(t, storage.Close())
	assert.True(t, db.closed)
}

package memstorage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testRecord(cert string) service.SCTRecord {
	return service.SCTRecord{
		ID: uuid.New(),
		Entry: ct.LogEntry{
			Type:      ct.X509LogEntryType,
			X509Entry: &ct.X509ChainEntry{LeafCertificate: []byte(cert)},
		},
		SCT: ct.SignedCertificateTimestamp{
			Timestamp: 1000,
			Signature: ct.DigitallySigned{
				Algorithm: ct.SignatureAndHashAlgorithm{Hash: ct.SHA256, Signature: ct.ECDSA},
				Signature: []byte{0x30, 0x01},
			},
		},
		IssuedAt: time.UnixMilli(1000).UTC(),
	}
}

func TestMemStorage_LatestSTH_Empty(t *testing.T) {
	storage, err := NewMemStorage(&config.ServerFlags{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = storage.LatestSTH(context.Background())
	assert.ErrorIs(t, err, service.ErrNoTreeHead)
}

func TestMemStorage_SaveSTH_LatestWins(t *testing.T) {
	storage, err := NewMemStorage(&config.ServerFlags{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, storage.SaveSTH(ctx, ct.SignedTreeHead{TreeSize: 1, Timestamp: 10}))
	require.NoError(t, storage.SaveSTH(ctx, ct.SignedTreeHead{TreeSize: 2, Timestamp: 20}))

	got, err := storage.LatestSTH(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.TreeSize)
	assert.Equal(t, uint64(20), got.Timestamp)
}

func TestMemStorage_ConcurrentSaveSCT(t *testing.T) {
	storage, err := NewMemStorage(&config.ServerFlags{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, storage.SaveSCT(context.Background(), testRecord("leaf")))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, storage.SCTCount())
}

func TestMemStorage_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctlog.json")
	cfg := &config.ServerFlags{StoragePath: path, StoreInterval: 0, Restore: true}

	storage, err := NewMemStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	rec := testRecord("leaf")
	sth := ct.SignedTreeHead{TreeSize: 7, Timestamp: 70, SHA256RootHash: make([]byte, 32)}
	require.NoError(t, storage.SaveSCT(ctx, rec))
	require.NoError(t, storage.SaveSTH(ctx, sth))
	require.NoError(t, storage.Close())

	restored, err := NewMemStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer restored.Close()

	assert.Equal(t, 1, restored.SCTCount())
	got, err := restored.LatestSTH(ctx)
	require.NoError(t, err)
	assert.Equal(t, sth, got)
	assert.Equal(t, rec, restored.scts[0])
}

func TestMemStorage_RestoreMissingFile(t *testing.T) {
	cfg := &config.ServerFlags{
		StoragePath:   filepath.Join(t.TempDir(), "missing.json"),
		StoreInterval: 300,
		Restore:       true,
	}

	storage, err := NewMemStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 0, storage.SCTCount())
	assert.NoError(t, storage.Close())
}

func TestMemStorage_CloseTwice(t *testing.T) {
	cfg := &config.ServerFlags{StoragePath: filepath.Join(t.TempDir(), "s.json"), StoreInterval: 1}
	storage, err := NewMemStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, storage.Close())
	assert.NoError(t, storage.Close())
}

func TestMemStorage_ConcurrentSyncSave(t *testing.T) {
	cfg := &config.ServerFlags{
		StoragePath:   filepath.Join(t.TempDir(), "ctlog.json"),
		StoreInterval: 0,
		Restore:       true,
	}
	storage, err := NewMemStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	const writers = 200
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, storage.SaveSCT(context.Background(), testRecord("leaf")))
		}()
	}
	wg.Wait()

	// Every acknowledged write must already be on disk, without Close.
	restored, err := NewMemStorage(&config.ServerFlags{StoragePath: cfg.StoragePath, Restore: true, StoreInterval: 300}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, writers, restored.SCTCount())

	require.NoError(t, restored.Close())
	require.NoError(t, storage.Close())
}

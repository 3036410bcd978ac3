package memstorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/config"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"go.uber.org/zap"
)

var _ service.Storage = (*memStorage)(nil)

type snapshot struct {
	SCTs      []service.SCTRecord `json:"scts"`
	TreeHeads []ct.SignedTreeHead `json:"tree_heads"`
}

type memStorage struct {
	mu        *sync.Mutex
	scts      []service.SCTRecord
	treeHeads []ct.SignedTreeHead
	path      string
	syncSave  bool
	log       *zap.Logger

	// held across marshal, write and rename so snapshots land in order
	saveMu *sync.Mutex

	tickerMu *sync.Mutex
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemStorage keeps everything in memory. With a storage path set the state
// is restored from and periodically written to that file.
func NewMemStorage(cfg *config.ServerFlags, log *zap.Logger) (*memStorage, error) {
	storage := &memStorage{
		mu:       &sync.Mutex{},
		saveMu:   &sync.Mutex{},
		tickerMu: &sync.Mutex{},
		path:     cfg.StoragePath,
		syncSave: cfg.StoragePath != "" && cfg.StoreInterval == 0,
		done:     make(chan struct{}),
		log:      log,
	}

	if storage.path == "" {
		return storage, nil
	}

	if cfg.Restore {
		if err := storage.LoadFromFile(storage.path); err != nil {
			return nil, err
		}
	}

	if cfg.StoreInterval > 0 {
		storage.StartPeriodicSave(time.Duration(cfg.StoreInterval) * time.Second)
	}

	return storage, nil
}

func (m *memStorage) SaveSCT(ctx context.Context, rec service.SCTRecord) error {
	m.mu.Lock()
	m.scts = append(m.scts, rec)
	m.mu.Unlock()

	return m.afterWrite()
}

func (m *memStorage) SaveSTH(ctx context.Context, sth ct.SignedTreeHead) error {
	m.mu.Lock()
	m.treeHeads = append(m.treeHeads, sth)
	m.mu.Unlock()

	return m.afterWrite()
}

func (m *memStorage) LatestSTH(ctx context.Context) (ct.SignedTreeHead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.treeHeads) == 0 {
		return ct.SignedTreeHead{}, service.ErrNoTreeHead
	}
	return m.treeHeads[len(m.treeHeads)-1], nil
}

// SCTCount reports how many SCTs have been stored.
func (m *memStorage) SCTCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scts)
}

func (m *memStorage) afterWrite() error {
	if !m.syncSave {
		return nil
	}
	if err := m.SaveToFile(m.path); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

func (m *memStorage) SaveToFile(filename string) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	data, err := json.MarshalIndent(snapshot{SCTs: m.scts, TreeHeads: m.treeHeads}, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

func (m *memStorage) LoadFromFile(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Info("no snapshot to restore", zap.String("filename", filename))
			return nil
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	m.scts = snap.SCTs
	m.treeHeads = snap.TreeHeads

	m.log.Info("snapshot restored",
		zap.String("filename", filename),
		zap.Int("scts", len(m.scts)),
		zap.Int("tree_heads", len(m.treeHeads)),
	)

	return nil
}

func (m *memStorage) StartPeriodicSave(interval time.Duration) {
	m.tickerMu.Lock()
	defer m.tickerMu.Unlock()

	if m.ticker != nil {
		m.log.Warn("periodic save already started")
		return
	}

	m.ticker = time.NewTicker(interval)
	ticks := m.ticker.C

	go func() {
		for {
			select {
			case <-ticks:
				if err := m.SaveToFile(m.path); err != nil {
					m.log.Error("failed to save snapshot", zap.Error(err))
				} else {
					m.log.Debug("snapshot saved", zap.String("filename", m.path))
				}
			case <-m.done:
				m.log.Info("periodic save stopped")
				return
			}
		}
	}()
}

func (m *memStorage) Close() error {
	m.tickerMu.Lock()
	defer m.tickerMu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}

	select {
	case <-m.done:
	default:
		close(m.done)
	}

	if m.path == "" {
		return nil
	}
	if err := m.SaveToFile(m.path); err != nil {
		return fmt.Errorf("failed to save on close: %w", err)
	}

	return nil
}

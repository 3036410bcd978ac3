package observers

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"go.uber.org/zap"
)

type FileObserver struct {
	file     *os.File
	filePath string
	log      *zap.Logger
	mu       sync.Mutex
}

func NewFileObserver(filePath string, log *zap.Logger) (*FileObserver, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &FileObserver{
		file:     file,
		filePath: filePath,
		log:      log,
	}, nil
}

func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	if err := f.file.Sync(); err != nil {
		f.log.Warn("sync failed on close", zap.Error(err))
	}

	if err := f.file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	f.file = nil
	f.log.Info("file observer closed", zap.String("path", f.filePath))
	return nil
}

// OnLogEvent appends event to the audit file as one JSON line.
func (f *FileObserver) OnLogEvent(event model.LogEvent) {
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		f.log.Error("error marshaling event", zap.Error(err))
		return
	}
	jsonEvent = append(jsonEvent, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		f.log.Warn("audit event dropped, file closed", zap.String("kind", event.Kind))
		return
	}

	if _, err := f.file.Write(jsonEvent); err != nil {
		f.log.Error("error writing audit file", zap.Error(err))
		return
	}

	f.log.Debug("audit event written", zap.String("kind", event.Kind))
}

package observers

import (
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"go.uber.org/zap"
)

type EventLogger struct {
	logger *zap.Logger
}

func NewEventLogger(logger *zap.Logger) *EventLogger {
	return &EventLogger{
		logger: logger,
	}
}

func (m *EventLogger) OnLogEvent(event model.LogEvent) {
	m.logger.Info("log event",
		zap.String("kind", event.Kind),
		zap.Uint64("timestamp", event.Timestamp),
		zap.String("id", event.ID),
	)
}

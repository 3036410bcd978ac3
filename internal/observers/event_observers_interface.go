package observers

import (
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
)

// EventObserver receives every event the publisher sees.
type EventObserver interface {
	OnLogEvent(event model.LogEvent)
}

package observers

import (
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
)

type EventPublisher interface {
	Publish(event model.LogEvent)
	Register(observer EventObserver)
	Unregister(observer EventObserver)
}

package service

import (
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
)

type EventPublisher interface {
	Publish(event model.LogEvent)
}

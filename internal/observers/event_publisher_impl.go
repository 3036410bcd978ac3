package observers

import (
	"sync"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
)

var _ EventPublisher = (*EventPublisherImpl)(nil)

type EventPublisherImpl struct {
	observers []EventObserver
	mu        sync.RWMutex
}

func NewEventPublisher() *EventPublisherImpl {
	return &EventPublisherImpl{
		observers: make([]EventObserver, 0),
	}
}

// Publish hands event to each observer in registration order. Observers that
// do slow work are expected to do it off the caller's goroutine.
func (p *EventPublisherImpl) Publish(event model.LogEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, observer := range p.observers {
		observer.OnLogEvent(event)
	}
}

func (p *EventPublisherImpl) Register(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

func (p *EventPublisherImpl) Unregister(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, o := range p.observers {
		if o == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

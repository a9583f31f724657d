// Package events is a small in-process observer used to tell dependents that
// the current rate set changed.
package events

import (
	"sync"
	"time"
)

type RatesUpdated struct {
	Base      string
	Offline   bool
	FetchedAt time.Time
}

type RatesHandler func(RatesUpdated)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Publishers must not hold their own locks while
// publishing.
type Bus struct {
	mu       sync.RWMutex
	handlers []RatesHandler
}

func (b *Bus) SubscribeRates(h RatesHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) PublishRates(e RatesUpdated) {
	b.mu.RLock()
	handlers := make([]RatesHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

func NewBus() *Bus {
	return &Bus{}
}

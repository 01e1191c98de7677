package eventbus

import (
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type subscription struct {
	ch    chan *Event
	types []EventType
}

func (s *subscription) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Bus fans events out to subscribers. Delivery never blocks the publisher:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]*subscription),
	}
}

// Subscribe registers a subscriber for the given event types, or for every
// type when none are given. The channel is closed by Unsubscribe.
func (b *Bus) Subscribe(bufSize int, types ...EventType) (string, <-chan *Event) {
	id := ulid.Make().String()
	sub := &subscription{
		ch:    make(chan *Event, bufSize),
		types: slices.Clone(types),
	}
	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()
	return id, sub.ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (b *Bus) PublishNew(eventType EventType, resourceID string, metadata map[string]string) {
	b.Publish(&Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		ResourceID: resourceID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	})
}

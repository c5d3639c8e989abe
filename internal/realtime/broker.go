package realtime

import (
	"context"
	"log/slog"
	"sync"

	"sunami_park/internal/domain/models"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one park settings change pushed to subscribers. The feed is the
// last-writer-wins authority for confirmed settings state: subscribers
// apply events unconditionally.
type Event struct {
	Type     EventType            `json:"type"`
	Settings *models.ParkSettings `json:"settings,omitempty"`
}

const subscriberBuffer = 16

// Broker fans settings events out to in-process subscribers. A slow
// subscriber loses events rather than blocking the writer.
type Broker struct {
	log  *slog.Logger
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBroker(log *slog.Logger) *Broker {
	return &Broker{
		log:  log,
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe returns the event channel and an unsubscribe handle. The
// channel is closed on unsubscribe.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn("realtime subscriber too slow, event dropped",
				slog.String("event_type", string(ev.Type)))
		}
	}
}

// PublishSettings lets the broker stand in for the redis bridge when
// single-instance deployments have no redis to relay through.
func (b *Broker) PublishSettings(_ context.Context, ev Event) error {
	b.Publish(ev)
	return nil
}

func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

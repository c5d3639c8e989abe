package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sunami_park/internal/lib/logger/sl"
	storage "sunami_park/internal/storage/redis"
)

// Bridge relays settings events between the redis channel and the local
// broker so multiple app instances see each other's writes.
type Bridge struct {
	log    *slog.Logger
	client *storage.Client
	broker *Broker
}

func NewBridge(log *slog.Logger, client *storage.Client, broker *Broker) *Bridge {
	return &Bridge{
		log:    log,
		client: client,
		broker: broker,
	}
}

// Run consumes the redis channel and republishes locally until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	const op = "realtime.Bridge.Run"

	log := b.log.With(slog.String("op", op))

	sub := b.client.SubscribeSettingsEvents(ctx)
	defer sub.Close()

	ch := sub.Channel()

	log.Info("realtime bridge started", slog.String("channel", storage.SettingsChannel))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("%s: subscription channel closed", op)
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Error("failed to decode settings event", sl.Err(err))
				continue
			}

			b.broker.Publish(ev)
		}
	}
}

// PublishSettings pushes the event through redis; it reaches the local
// broker too, through this instance's own subscription.
func (b *Bridge) PublishSettings(ctx context.Context, ev Event) error {
	return b.PublishRemote(ctx, ev)
}

// PublishRemote pushes an event into redis for the other instances.
func (b *Bridge) PublishRemote(ctx context.Context, ev Event) error {
	const op = "realtime.Bridge.PublishRemote"

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := b.client.PublishSettingsEvent(ctx, payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

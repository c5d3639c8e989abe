package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SettingsChannel is the pub/sub channel carrying park settings change
// events between instances.
const SettingsChannel = "park:settings:events"

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewClientFromConn оборачивает уже созданное соединение (для тестов с redismock).
func NewClientFromConn(conn *redis.Client) *Client {
	return &Client{Client: conn}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) PublishSettingsEvent(ctx context.Context, payload []byte) error {
	return c.Publish(ctx, SettingsChannel, payload).Err()
}

func (c *Client) SubscribeSettingsEvents(ctx context.Context) *redis.PubSub {
	return c.Subscribe(ctx, SettingsChannel)
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// Package redis publishes finalized purchases on a Redis channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"storefront/pkg/shop"
)

// Client is the subset of *redis.Client the publisher needs.
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// Publisher implements shop.PurchaseSink.
type Publisher struct {
	client  Client
	channel string
}

// New creates a publisher writing to channel.
func New(client Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Record publishes p as JSON.
func (p *Publisher) Record(ctx context.Context, purchase shop.Purchase) error {
	b, err := json.Marshal(purchase)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish purchase %d: %w", purchase.ID, err)
	}
	return nil
}

var _ shop.PurchaseSink = (*Publisher)(nil)

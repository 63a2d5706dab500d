package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/shop"
)

type fakeClient struct {
	channel string
	message []byte
	err     error
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	return goredis.NewIntResult(1, f.err)
}

func TestPublisherRecord(t *testing.T) {
	c := &fakeClient{}
	p := New(c, "purchases")

	purchase := shop.Purchase{
		ID:         3,
		Items:      []shop.PurchaseLine{{ItemID: 1, Name: "Laptop", Price: 1000, Quantity: 2, Subtotal: 2000}},
		TotalPrice: 2000,
	}
	require.NoError(t, p.Record(context.Background(), purchase))
	assert.Equal(t, "purchases", c.channel)

	var got shop.Purchase
	require.NoError(t, json.Unmarshal(c.message, &got))
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, 2000.0, got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Laptop", got.Items[0].Name)
}

func TestPublisherRecordError(t *testing.T) {
	down := errors.New("connection refused")
	p := New(&fakeClient{err: down}, "purchases")

	err := p.Record(context.Background(), shop.Purchase{ID: 9})
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "purchase 9")
}

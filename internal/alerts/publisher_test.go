package alerts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPublishLowStock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	const channel = "stocklight:alerts:low-stock"
	ctx := context.Background()

	sub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewPublisher(client, channel)
	sent := LowStockAlert{
		Code:         "A-100",
		Description:  "widget",
		Quantity:     2,
		ReorderPoint: 5,
		ObservedAt:   time.Now().UTC(),
	}
	require.NoError(t, pub.PublishLowStock(ctx, sent))

	select {
	case msg := <-sub.Channel():
		var got LowStockAlert
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		require.Equal(t, sent.Code, got.Code)
		require.EqualValues(t, 2, got.Quantity)
		require.EqualValues(t, 5, got.ReorderPoint)
	case <-time.After(2 * time.Second):
		t.Fatal("no alert received")
	}
}

func TestNilPublisherIsNoOp(t *testing.T) {
	var pub *Publisher
	require.NoError(t, pub.PublishLowStock(context.Background(), LowStockAlert{Code: "A-100"}))
}

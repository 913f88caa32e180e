// Package alerts publishes low-stock notifications for downstream consumers
// (dashboards, purchasing tools) over Redis pub/sub.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LowStockAlert is the wire format published to the alert channel.
type LowStockAlert struct {
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	Quantity     int64     `json:"quantity"`
	ReorderPoint int64     `json:"reorder_point"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Publisher sends alerts to a Redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher constructs Publisher.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// PublishLowStock sends one alert. Delivery is fire-and-forget pub/sub;
// consumers that are offline miss the message and pick the SKU up on the
// next scan.
func (p *Publisher) PublishLowStock(ctx context.Context, alert LowStockAlert) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("alerts: marshal: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("alerts: publish: %w", err)
	}
	return nil
}

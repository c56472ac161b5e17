package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fundease/internal/domain"
)

// RedisPublisher pushes committed notifications to a Redis pub/sub channel.
// Realtime subscribers pick them up from there; the stored row stays the
// source of truth.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

// Message is the payload published for each notification.
type Message struct {
	Event        string               `json:"event"`
	Notification *domain.Notification `json:"notification"`
}

const eventNotificationCreated = "notification.created"

func (p *RedisPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(Message{Event: eventNotificationCreated, Notification: n})
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification %s: %w", n.ID, err)
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/fundease/internal/domain"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublisher_Publish(t *testing.T) {
	_, client := newRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "fundease:notifications")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := domain.NewNotification(uuid.New(), "Loan Approved", "Your loan has been approved.",
		domain.NotificationSuccess, time.Date(2024, 4, 25, 10, 0, 0, 0, time.UTC))

	publisher := NewRedisPublisher(client, "fundease:notifications")
	require.NoError(t, publisher.Publish(ctx, n))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "notification.created", got.Event)
	assert.Equal(t, n.ID, got.Notification.ID)
	assert.Equal(t, n.UserID, got.Notification.UserID)
	assert.Equal(t, "Loan Approved", got.Notification.Title)
	assert.Equal(t, domain.NotificationSuccess, got.Notification.Type)
}

func TestRedisPublisher_PublishFailsWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	publisher := NewRedisPublisher(client, "fundease:notifications")
	err := publisher.Publish(context.Background(), domain.NewNotification(uuid.New(), "t", "m", domain.NotificationInfo, time.Now()))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "publish notification")
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"qhse/qcsync/internal/model"
)

// PubSub publishes evaluation completion notifications.
type PubSub struct {
	client *redis.Client
}

// NewPubSub connects to Redis and verifies the connection.
func NewPubSub(addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSub{client: client}, nil
}

// EvaluationNotification announces one finished evaluation. Subscribers (the
// console backend, out of this repo) use it to refresh dashboards without
// polling the record tables.
type EvaluationNotification struct {
	RecordID   string                  `json:"record_id"`
	ActionType string                  `json:"action_type"`
	Status     string                  `json:"status"` // EVALUATED/FAILED
	Verdict    model.ConformityVerdict `json:"verdict,omitempty"`
	Timestamp  int64                   `json:"timestamp"`
}

// PublishEvaluationComplete publishes a completion notification on channel.
func (p *PubSub) PublishEvaluationComplete(ctx context.Context, channel string, notification *EvaluationNotification) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Close releases the Redis connection.
func (p *PubSub) Close() error {
	return p.client.Close()
}

package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher — подмножество redis-клиента, нужное для публикации.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink публикует события JSON-ом в канал redis pub/sub.
type RedisSink struct {
	client  Publisher
	channel string
}

func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// NewRedisClient создаёт клиента и проверяет соединение.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:  "tcp",
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisSink) Emit(ctx context.Context, e Event) error {
	body, err := e.payload()
	if err != nil {
		return fmt.Errorf("redis: encode event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", s.channel, err)
	}
	return nil
}

package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisDispatcher pushes messages onto a redis list consumed by the mail
// worker.
type RedisDispatcher struct {
	client redis.UniversalClient
	queue  string
}

func NewRedisDispatcher(client redis.UniversalClient, queue string) *RedisDispatcher {
	return &RedisDispatcher{client: client, queue: queue}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}
	if err := d.client.LPush(ctx, d.queue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue mail message: %w", err)
	}
	return nil
}

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the replay pipeline drains.
const DefaultQueueName = "codenames_actions"

// RedisRecorder pushes JSON records onto a Redis list.
type RedisRecorder struct {
	client *redis.Client
	queue  string
}

// NewRedisRecorder connects to Redis and verifies the connection with a
// short ping. An empty queue name falls back to DefaultQueueName.
func NewRedisRecorder(addr string, db int, queue string) (*RedisRecorder, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisRecorder{client: client, queue: queue}, nil
}

// Record serializes the record and appends it to the journal list.
func (r *RedisRecorder) Record(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	if err := r.client.RPush(ctx, r.queue, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", r.queue, err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisRecorder) Close() error {
	return r.client.Close()
}

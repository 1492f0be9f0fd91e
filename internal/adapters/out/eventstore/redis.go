package eventstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const notifyPrefix = "notify:"

// RedisStore keeps lists in Redis so several instances share the same channels.
// Notifications use Redis pub/sub on "notify:<key>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client; the caller owns its lifecycle.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient opens a client for addr and checks connectivity.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Push(ctx context.Context, key string, payload []byte) error {
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.LPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lpop %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *RedisStore) Len(ctx context.Context, key string) (int64, error) {
	n, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", key, err)
	}
	return n, nil
}

// Trim keeps the newest keep payloads. Length and trim run in one MULTI so the dropped count
// matches what was removed.
func (s *RedisStore) Trim(ctx context.Context, key string, keep int64) (int64, error) {
	keep = max(keep, 0)

	var length *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LLen(ctx, key)
		if keep == 0 {
			pipe.Del(ctx, key)
			return nil
		}
		pipe.LTrim(ctx, key, -keep, -1)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("trim %s: %w", key, err)
	}

	return max(length.Val()-keep, 0), nil
}

func (s *RedisStore) Notify(ctx context.Context, key string) error {
	return s.client.Publish(ctx, notifyPrefix+key, key).Err()
}

// Subscribe listens on the notification channels of keys until ctx is done.
func (s *RedisStore) Subscribe(ctx context.Context, keys ...string) (<-chan string, error) {
	channels := make([]string, 0, len(keys))
	for _, key := range keys {
		channels = append(channels, notifyPrefix+key)
	}

	pubsub := s.client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %v: %w", keys, err)
	}

	out := make(chan string, subscriptionBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
				}
			}
		}
	}()

	return out, nil
}

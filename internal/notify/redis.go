// AngelaMos | 2026
// redis.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const streamMaxLen = 100_000

// StreamAdder is the slice of the redis client the stream notifier needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStream appends each message to a capped Redis stream for a separate
// delivery worker to consume.
type RedisStream struct {
	client StreamAdder
	stream string
}

func NewRedisStream(client StreamAdder, stream string) *RedisStream {
	return &RedisStream{client: client, stream: stream}
}

func (s *RedisStream) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("encode message data: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"id":         msg.ID,
			"kind":       msg.Kind,
			"to":         msg.To,
			"subject":    msg.Subject,
			"body":       msg.Body,
			"data":       string(data),
			"created_at": msg.CreatedAt.UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	return nil
}

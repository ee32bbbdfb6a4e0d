package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TruthSource/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher appends messages to a capped Redis list per message type.
type RedisPublisher struct {
	logger    *logger.Logger
	client    redis.Cmdable
	keyPrefix string
	maxLen    int64
	now       func() time.Time
}

// RedisPublisherOption configures RedisPublisher.
type RedisPublisherOption func(*RedisPublisher)

// WithKeyPrefix sets the list key prefix.
func WithKeyPrefix(prefix string) RedisPublisherOption {
	return func(r *RedisPublisher) { r.keyPrefix = prefix }
}

// WithMaxLen caps each list; older entries are trimmed. Zero disables trimming.
func WithMaxLen(n int64) RedisPublisherOption {
	return func(r *RedisPublisher) { r.maxLen = n }
}

func NewRedisPublisher(lgr *logger.Logger, client redis.Cmdable, opts ...RedisPublisherOption) *RedisPublisher {
	p := &RedisPublisher{
		logger:    lgr,
		client:    client,
		keyPrefix: "truthsource:queue",
		maxLen:    10000,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishMessage LPUSHes a JSON envelope onto <prefix>:<msgType>.
func (r *RedisPublisher) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	msg := Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: r.now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := r.Key(msgType)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if r.maxLen > 0 {
		pipe.LTrim(ctx, key, 0, r.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}

	r.logger.Debug("queue message published",
		logger.String("key", key),
		logger.String("id", msg.ID))
	return nil
}

// Key returns the list key for a message type.
func (r *RedisPublisher) Key(msgType string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, msgType)
}

var _ Publisher = (*RedisPublisher)(nil)

package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// releaseScript deletes the key only when it still carries the caller's token,
// so a slot that expired and was re-acquired by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard is a Guard shared by every instance connected to the same Redis.
type RedisGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisGuard.
type RedisOption func(*RedisGuard)

// WithTTL bounds how long a slot survives a holder that never releases it.
func WithTTL(ttl time.Duration) RedisOption {
	return func(g *RedisGuard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

func NewRedisGuard(client redis.UniversalClient, prefix string, opts ...RedisOption) *RedisGuard {
	g := &RedisGuard{
		client: client,
		prefix: prefix + "pending:",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.prefix+key, token, g.ttl).Result()
	if err != nil {
		return "", errors.Join(ErrGuardFailure, err)
	}
	if !ok {
		return "", ErrAlreadyPending
	}
	return token, nil
}

func (g *RedisGuard) Release(ctx context.Context, key, token string) error {
	if key == "" || token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, g.client, []string{g.prefix + key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Join(ErrGuardFailure, err)
	}
	return nil
}

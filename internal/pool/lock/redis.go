package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

const poolLockKeyPrefix = "pool:lock:"

// releaseScript deletes the lock only when it still holds our token, so an
// expired-and-reacquired lock is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is the distributed PoolLocker for multi-instance deployments:
// SET NX with a TTL per pool. The TTL bounds lock loss after a crashed holder.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

type RedisLockerOption func(*RedisLocker)

func WithRetryInterval(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		l.retry = d
	}
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire polls SET NX until the lock is held or the context expires.
func (l *RedisLocker) Acquire(ctx context.Context, poolID id.PoolID) (func(), error) {
	key := poolLockKeyPrefix + poolID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, sentinel.ErrUnavailable
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

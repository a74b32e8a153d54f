package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// LockKeyPrefix namespaces every lock so plan seeding and scheduler jobs
// never collide with rate limit buckets in a shared Redis.
const LockKeyPrefix = "vitrine:lock:"

var (
	ErrLockNotConfigured = errors.New("lock_not_configured")
	ErrInvalidLock       = errors.New("invalid_lock")
)

// Only the holder's token deletes the key.
const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker is a single-instance Redis lease used for work that must run once
// across replicas.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(lockReleaseScript),
	}
}

// TryLock acquires key for ttl. A false result with a nil error means another
// holder owns the lease.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, ErrLockNotConfigured
	}
	if key == "" || ttl <= 0 {
		return "", false, ErrInvalidLock
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, LockKeyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release frees key if token still owns it. Releasing a lease that expired or
// was taken over is a no-op.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil || key == "" || token == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{LockKeyPrefix + key}, token).Err()
}

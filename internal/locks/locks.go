// Package locks serializes concurrent writes to the same external key.
// Webhook redeliveries for one entity must not interleave the delete-then-
// insert child replacement.
package locks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock_not_acquired")

// KeyedLocker grants short leases scoped to one external entity key.
type KeyedLocker interface {
	// Acquire blocks-free: it either grants a lease token or reports the
	// key as held. ttl bounds how long a crashed holder can wedge the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// redisLocker leases via SetNX with a per-holder token, released with a
// compare-and-delete script so an expired holder cannot free a newer lease.
type redisLocker struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLocker(client *redis.Client) KeyedLocker {
	return &redisLocker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, "storesync:lock:"+key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *redisLocker) Release(ctx context.Context, key, token string) error {
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{"storesync:lock:" + key}, token).Err()
}

// localLocker is the in-process fallback for single-node deployments without
// a configured redis address.
type localLocker struct {
	mu     sync.Mutex
	leases map[string]localLease
}

type localLease struct {
	token   string
	expires time.Time
}

func NewLocalLocker() KeyedLocker {
	return &localLocker{leases: make(map[string]localLease)}
}

func (l *localLocker) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if lease, held := l.leases[key]; held && now.Before(lease.expires) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.leases[key] = localLease{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *localLocker) Release(_ context.Context, key, token string) error {
	if key == "" || token == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lease, held := l.leases[key]; held && lease.token == token {
		delete(l.leases, key)
	}
	return nil
}

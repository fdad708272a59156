// Package lease provides single-flight guards for background work. The
// local lease covers one process; the Redis lease extends it across
// instances sharing a Redis server.
package lease

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Lease grants exclusive ownership of a key for up to ttl. ok is false
// when someone else holds it. release must be called when ok is true.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Local is an in-process lease keyed by name.
type Local struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*sync.Mutex)}
}

func (l *Local) lock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// Acquire never blocks; ttl is ignored because the holder always releases.
func (l *Local) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	m := l.lock(key)
	if !m.TryLock() {
		return nil, false, nil
	}
	return m.Unlock, true, nil
}

// releaseScript deletes the key only while it still holds our token, so a
// lease that expired and was re-acquired elsewhere is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease stored as a Redis key with a random token.
type Redis struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

// NewRedis creates a Redis lease; keys are stored as prefix+key. A nil
// logger discards release failures.
func NewRedis(client *redis.Client, prefix string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, log: logger}
}

// Acquire sets the key with NX and a PX expiry. The expiry bounds how long
// a crashed holder can block others.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if r == nil || r.client == nil {
		return nil, false, errors.New("lease: redis client not configured")
	}
	full := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The caller's context may already be done; use a short fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, r.client, []string{full}, token).Err(); err != nil {
			// The key still expires on its own after ttl.
			r.log.Warn("lease release failed",
				zap.String("key", full),
				zap.Duration("ttl", ttl),
				zap.Error(err))
		}
	}
	return release, true, nil
}

// Chain acquires every lease in order and releases them in reverse. It
// fails fast on the first lease that is held elsewhere.
type Chain []Lease

func (c Chain) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, l := range c {
		rel, ok, err := l.Acquire(ctx, key, ttl)
		if err != nil || !ok {
			releaseAll()
			return nil, false, err
		}
		releases = append(releases, rel)
	}
	return releaseAll, true, nil
}

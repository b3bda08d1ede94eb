package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker serializes work on a named resource. The returned release func must
// be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// NoopLocker never blocks.
type NoopLocker struct{}

func (NoopLocker) Lock(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// FolderLock is a Redis mutex: SET NX PX to acquire, a token-checked DEL to
// release so an expired holder cannot free someone else's lock.
type FolderLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

type Option func(*FolderLock)

func WithTTL(ttl time.Duration) Option {
	return func(l *FolderLock) { l.ttl = ttl }
}

func WithRetry(every, maxWait time.Duration) Option {
	return func(l *FolderLock) {
		l.retry = every
		l.wait = maxWait
	}
}

func NewFolderLock(client *redis.Client, opts ...Option) *FolderLock {
	l := &FolderLock{
		client: client,
		prefix: "holoframe:lock:",
		ttl:    30 * time.Second,
		retry:  100 * time.Millisecond,
		wait:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (l *FolderLock) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	release := func() {
		// Release must run even when the request context is already done.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(ctx, l.client, []string{fullKey}, token)
	}
	return release, nil
}

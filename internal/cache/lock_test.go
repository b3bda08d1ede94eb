package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/cache"
)

func newLock(t *testing.T, opts ...cache.Option) (*cache.FolderLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewFolderLock(client, opts...), mr
}

func TestFolderLock_AcquireRelease(t *testing.T) {
	lock, mr := newLock(t)

	release, err := lock.Lock(context.Background(), "folder:holo/veo_video")
	require.NoError(t, err)
	assert.True(t, mr.Exists("holoframe:lock:folder:holo/veo_video"))

	release()
	assert.False(t, mr.Exists("holoframe:lock:folder:holo/veo_video"))
}

func TestFolderLock_SecondHolderTimesOut(t *testing.T) {
	lock, _ := newLock(t, cache.WithRetry(5*time.Millisecond, 30*time.Millisecond))

	release, err := lock.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	_, err = lock.Lock(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cache.ErrLockTimeout))
}

func TestFolderLock_ReleaseDoesNotFreeForeignLock(t *testing.T) {
	lock, mr := newLock(t)

	release, err := lock.Lock(context.Background(), "k")
	require.NoError(t, err)

	// Simulate expiry and takeover by another holder.
	require.NoError(t, mr.Set("holoframe:lock:k", "someone-else"))
	release()

	v, err := mr.Get("holoframe:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestFolderLock_SerializesHolders(t *testing.T) {
	lock, _ := newLock(t, cache.WithRetry(time.Millisecond, 5*time.Second))

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Lock(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestNoopLocker(t *testing.T) {
	release, err := cache.NoopLocker{}.Lock(context.Background(), "anything")
	require.NoError(t, err)
	release()
}

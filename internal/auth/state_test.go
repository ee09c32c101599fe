package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreSingleUseAndTTL(t *testing.T) {
	store := NewMemoryStateStore().(*memoryStateStore)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", time.Minute))
	ok, _ := store.Consume(ctx, "a")
	assert.True(t, ok)
	ok, _ = store.Consume(ctx, "a")
	assert.False(t, ok, "state must be single use")

	require.NoError(t, store.Put(ctx, "b", time.Minute))
	now = now.Add(2 * time.Minute)
	ok, _ = store.Consume(ctx, "b")
	assert.False(t, ok, "expired state must be rejected")
}

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) GetDel(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(f.values, key)
	return redis.NewStringResult(v, nil)
}

func TestRedisStateStore(t *testing.T) {
	fake := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	store := NewRedisStateStore(fake)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, fake.ttls["oauth_state:s1"])

	ok, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

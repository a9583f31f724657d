package redis

import (
	"context"
	"os"
	"testing"

	"fxconv/internal/domain"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Runs only when REDIS_ADDR points at a disposable Redis instance.
func setupRedis(t *testing.T) *KVStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	s := NewKVStore(client, "fxconv-test:"+uuid.NewString()+":")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKVStore_RoundTrip(t *testing.T) {
	s := setupRedis(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "ratesBase")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "ratesBase", []byte(`"USD"`)))
	got, err := s.Get(ctx, "ratesBase")
	require.NoError(t, err)
	require.Equal(t, `"USD"`, string(got))

	require.NoError(t, s.Delete(ctx, "ratesBase"))
	_, err = s.Get(ctx, "ratesBase")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_CanceledContext(t *testing.T) {
	s := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "ratesBase")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}

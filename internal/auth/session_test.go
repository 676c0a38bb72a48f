package auth

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when TEST_REDIS_ADDR is set, e.g. localhost:6379.
func TestSessionStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	req := require.New(t)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	req.NoError(rdb.Ping(ctx).Err())

	sessions := NewSessionStore(rdb)
	sid, err := sessions.Create(ctx, 7)
	req.NoError(err)
	req.NotEmpty(sid)

	id, ok, err := sessions.Get(ctx, sid)
	req.NoError(err)
	req.True(ok)
	req.Equal(7, id)

	req.NoError(sessions.Delete(ctx, sid))
	_, ok, err = sessions.Get(ctx, sid)
	req.NoError(err)
	req.False(ok)
}

package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Operations(t *testing.T) {
	mr := miniredis.RunT(t)
	rds, err := NewClient(RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rds.Close() })

	ok, err := rds.SetNX("k", "pending", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rds.SetNX("k", "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "pending", rds.Get("k"))

	assert.True(t, rds.Set("k", "pay-1", time.Minute))
	assert.Equal(t, "pay-1", rds.Get("k"))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, "", rds.Get("k"))

	assert.True(t, rds.Set("k", "v", 0))
	assert.True(t, rds.Del("k"))
	assert.Equal(t, "", rds.Get("k"))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(RedisConfig{Address: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

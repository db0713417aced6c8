package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClaimRelease(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)

	ok, err := m.Claim(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Claim(ctx, "tx-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Release(ctx, "tx-1"))
	ok, err = m.Claim(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	ok, _ := m.Claim(ctx, "tx-1")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err := m.Claim(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisKeyPrefix(t *testing.T) {
	r := NewRedis(nil, "", 0)
	assert.Equal(t, "vipbot:payments:tx:abc", r.key("abc"))
	assert.Equal(t, DefaultTTL, r.ttl)
}

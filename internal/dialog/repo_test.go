package dialog

import (
	"context"
	"testing"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(records.New(records.NewMemory(), records.Options{Attempts: 1}, nil))

	it, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, it.State)

	require.NoError(t, repo.Set(ctx, 42, StateAwaitCode, Payload{"prompt": "gratis"}))
	it, err = repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitCode, it.State)
	s, ok := GetString(it.Payload, "prompt")
	assert.True(t, ok)
	assert.Equal(t, "gratis", s)

	require.NoError(t, repo.Reset(ctx, 42))
	it, err = repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, it.State)
	assert.Empty(t, it.Payload)
}

func TestGetString(t *testing.T) {
	p := Payload{"n": 1.0, "s": "x"}
	_, ok := GetString(p, "n")
	assert.False(t, ok)
	_, ok = GetString(p, "missing")
	assert.False(t, ok)
}

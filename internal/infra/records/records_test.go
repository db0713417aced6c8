package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastStore(b Backend) *Store {
	return New(b, Options{Attempts: 3, Backoff: time.Millisecond, AttemptTimeout: time.Second}, nil)
}

func TestStoreGetPutAppend(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := fastStore(mem)

	row := Row{"ep01", "Episode 1", "free-1", "vip-1", "TRUE"}
	require.NoError(t, s.Append(ctx, Catalog, row))

	got, err := s.Get(ctx, Catalog, "ep01")
	require.NoError(t, err)
	assert.Equal(t, row, got)

	row[1] = "Episode One"
	require.NoError(t, s.Put(ctx, Catalog, "ep01", row))
	got, err = s.Get(ctx, Catalog, "ep01")
	require.NoError(t, err)
	assert.Equal(t, "Episode One", got[1])

	err = s.Append(ctx, Catalog, row)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStoreNotFoundIsNotRetried(t *testing.T) {
	mem := NewMemory()
	s := fastStore(mem)

	_, err := s.Get(context.Background(), Members, "42")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, mem.Calls("get"))
	assert.Equal(t, 0, mem.Resets())
}

func TestStoreRetriesTransientFailure(t *testing.T) {
	mem := NewMemory()
	mem.Seed(Members, Row{"42", "bob", "non-vip", "", "2026-10-15T08:00:00+07:00", "5"})
	s := fastStore(mem)

	mem.FailNext(2)
	got, err := s.Get(context.Background(), Members, "42")
	require.NoError(t, err)
	assert.Equal(t, "bob", got[1])
	assert.Equal(t, 3, mem.Calls("get"))
	assert.Equal(t, 2, mem.Resets())
}

func TestStoreUnavailableAfterExhaustion(t *testing.T) {
	mem := NewMemory()
	s := fastStore(mem)

	mem.FailNext(10)
	err := s.Put(context.Background(), Members, "42", Row{"42", "", "non-vip", "", "", "5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 3, mem.Calls("put"))
	assert.Equal(t, 3, mem.Resets())
}

func TestStoreRejectsMalformedRows(t *testing.T) {
	mem := NewMemory()
	s := fastStore(mem)
	ctx := context.Background()

	assert.Error(t, s.Append(ctx, Members, Row{"42"}))
	assert.Error(t, s.Put(ctx, Catalog, "ep02", Row{"ep01", "", "", "", ""}))
	assert.Error(t, s.Append(ctx, Table("films"), Row{"x"}))
	assert.Equal(t, 0, mem.Calls("append"))
	assert.Equal(t, 0, mem.Calls("put"))
}

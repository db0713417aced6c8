package workbook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cdrama.xlsx")

	b, err := Open(path)
	require.NoError(t, err)

	member := records.Row{"12345", "alice", "non-vip", "", "2026-10-15T08:00:00+07:00", "5"}
	require.NoError(t, b.Append(ctx, records.Members, member))
	assert.ErrorIs(t, b.Append(ctx, records.Members, member), records.ErrConflict)

	member[2] = "vip"
	member[3] = "2026-10-22"
	require.NoError(t, b.Put(ctx, records.Members, "12345", member))

	film := records.Row{"ep01", "Episode 1", "https://t.me/c/1/10", "https://t.me/c/1/11", "TRUE"}
	require.NoError(t, b.Put(ctx, records.Catalog, "ep01", film))
	require.NoError(t, b.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, records.Members, "12345")
	require.NoError(t, err)
	assert.Equal(t, member, got)

	got, err = reopened.Get(ctx, records.Catalog, "ep01")
	require.NoError(t, err)
	assert.Equal(t, film, got)

	_, err = reopened.Get(ctx, records.Members, "999")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestWorkbookPadsShortRows(t *testing.T) {
	ctx := context.Background()
	b, err := Open(filepath.Join(t.TempDir(), "short.xlsx"))
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	// пустые хвостовые ячейки xlsx не возвращает
	require.NoError(t, b.Put(ctx, records.Members, "7", records.Row{"7", "", "non-vip", "", "", ""}))

	got, err := b.Get(ctx, records.Members, "7")
	require.NoError(t, err)
	assert.Len(t, got, len(records.Columns[records.Members]))
	assert.Equal(t, "non-vip", got[2])
}

func TestWorkbookResetReopens(t *testing.T) {
	ctx := context.Background()
	b, err := Open(filepath.Join(t.TempDir(), "reset.xlsx"))
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	require.NoError(t, b.Append(ctx, records.Dialogs, records.Row{"1", "await_code", "{}"}))
	require.NoError(t, b.Reset(ctx))

	got, err := b.Get(ctx, records.Dialogs, "1")
	require.NoError(t, err)
	assert.Equal(t, "await_code", got[1])
}

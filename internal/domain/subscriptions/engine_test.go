package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

func setup(t *testing.T, now *time.Time) (*Engine, *members.Repo, *records.Memory) {
	t.Helper()
	mem := records.NewMemory()
	clock := members.Clock{Loc: wib, Now: func() time.Time { return *now }}
	repo := members.NewRepo(records.New(mem, records.Options{Attempts: 1}, nil), clock, 5)
	return NewEngine(repo), repo, mem
}

func day(d int) time.Time {
	return time.Date(2026, 10, d, 12, 0, 0, 0, wib)
}

func TestGrantOrExtendSetsExpiry(t *testing.T) {
	ctx := context.Background()
	now := day(15)
	e, repo, _ := setup(t, &now)
	_, _, err := repo.Ensure(ctx, "U1", "")
	require.NoError(t, err)

	m, err := e.GrantOrExtend(ctx, "U1", 7)
	require.NoError(t, err)
	assert.Equal(t, members.TierVIP, m.Tier)
	assert.Equal(t, "2026-10-22", m.Expiry.Format(members.DateLayout))

	stored, err := repo.Get(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, e.IsActive(stored, day(21)))
	assert.True(t, e.IsActive(stored, day(22)))
	assert.False(t, e.IsActive(stored, day(23)))
}

func TestGrantRestartsFromToday(t *testing.T) {
	ctx := context.Background()
	now := day(1)
	e, repo, _ := setup(t, &now)
	_, _, err := repo.Ensure(ctx, "U1", "")
	require.NoError(t, err)

	_, err = e.GrantOrExtend(ctx, "U1", 30)
	require.NoError(t, err)

	now = day(10)
	m, err := e.GrantOrExtend(ctx, "U1", 3)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-13", m.Expiry.Format(members.DateLayout))
}

func TestGrantUnknownMember(t *testing.T) {
	now := day(15)
	e, _, mem := setup(t, &now)

	_, err := e.GrantOrExtend(context.Background(), "ghost", 7)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, 0, mem.Calls("put"))
	assert.Equal(t, 0, mem.Calls("append"))
}

func TestIsActive(t *testing.T) {
	now := day(15)
	e, _, _ := setup(t, &now)
	past := time.Date(2026, 10, 14, 0, 0, 0, 0, wib)

	cases := []struct {
		name string
		m    *members.Member
		want bool
	}{
		{"nil member", nil, false},
		{"non-vip", &members.Member{Tier: members.TierNonVIP}, false},
		{"vip unlimited", &members.Member{Tier: members.TierVIP}, true},
		{"vip expired", &members.Member{Tier: members.TierVIP, Expiry: &past}, false},
		{"non-vip with stale expiry", &members.Member{Tier: members.TierNonVIP, Expiry: &past}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.ActiveNow(tc.m))
		})
	}
}

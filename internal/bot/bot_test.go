package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/vip-drama-bot/internal/domain/access"
	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/domain/catalog"
	"github.com/Spok95/vip-drama-bot/internal/domain/deeplink"
	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		contains string
		expected bool
	}{
		{"quota", access.ErrQuotaExhausted, "/vip", true},
		{"not found", fmt.Errorf("lookup: %w", access.ErrContentNotFound), "tidak ditemukan", true},
		{"vip", access.ErrVipRequired, "VIP", true},
		{"token", access.ErrMalformedToken, "tidak valid", true},
		{"store", fmt.Errorf("%w: get members", records.ErrUnavailable), "gangguan teknis", false},
		{"other", errors.New("boom"), "gangguan teknis", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, expected := userMessage(tc.err)
			assert.Equal(t, tc.expected, expected)
			assert.Contains(t, text, tc.contains)
			assert.NotContains(t, text, "records")
		})
	}
}

func TestParseReference(t *testing.T) {
	chat, msg, ok := parseReference("-1001234567890/42")
	require.True(t, ok)
	assert.Equal(t, int64(-1001234567890), chat)
	assert.Equal(t, 42, msg)

	for _, ref := range []catalog.Reference{"https://t.me/c/123/4", "123/0", "abc/1", ""} {
		_, _, ok := parseReference(ref)
		assert.False(t, ok, string(ref))
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 2.000", formatRupiah(2000))
	assert.Equal(t, "Rp 150.000", formatRupiah(150000))
	assert.Equal(t, "Rp 500", formatRupiah(500))
	assert.Equal(t, "Rp 1.000.000", formatRupiah(1000000))
}

func TestContinueKeyboard(t *testing.T) {
	token, err := deeplink.Encode("ep01", deeplink.P2)
	require.NoError(t, err)

	kb := continueKeyboard("vipdrama_bot", token)
	btn := kb.InlineKeyboard[0][0]
	require.NotNil(t, btn.CallbackData)
	assert.Equal(t, "part:"+token, *btn.CallbackData)

	long := strings.Repeat("z", 62)
	kb = continueKeyboard("vipdrama_bot", long)
	btn = kb.InlineKeyboard[0][0]
	require.NotNil(t, btn.URL)
	assert.Equal(t, "https://t.me/vipdrama_bot?start="+long, *btn.URL)
}

func TestVIPMenuKeyboard(t *testing.T) {
	pkgs := billing.DefaultPackages().Sorted()
	offers := make([]access.Offer, 0, len(pkgs))
	for _, p := range pkgs {
		offers = append(offers, access.Offer{Package: p, Email: "1@vipbot.com"})
	}
	kb := vipMenuKeyboard(offers)
	require.Len(t, kb.InlineKeyboard, 5)
	assert.Equal(t, "VIP 1 Hari - Rp 2.000", kb.InlineKeyboard[0][0].Text)
	require.NotNil(t, kb.InlineKeyboard[4][0].URL)
	assert.Equal(t, "https://trakteer.id/link5", *kb.InlineKeyboard[4][0].URL)
}

func TestParseGrantArgs(t *testing.T) {
	id, days, err := parseGrantArgs(" 12345  7 ")
	require.NoError(t, err)
	assert.Equal(t, "12345", id)
	assert.Equal(t, 7, days)

	for _, args := range []string{"", "12345", "12345 x", "12345 0", "1 2 3"} {
		_, _, err := parseGrantArgs(args)
		assert.Error(t, err, args)
	}
}

func TestStatusText(t *testing.T) {
	exp := time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)
	st := &access.Status{
		Member:    &members.Member{ExternalID: "1", Tier: members.TierVIP, Expiry: &exp},
		VIPActive: true,
		Remaining: 3,
		Cap:       5,
	}
	text := statusText("alice", st)
	assert.Contains(t, text, "VIP (aktif sampai 2026-10-22)")
	assert.Contains(t, text, "3/5")

	st.VIPActive = false
	assert.Contains(t, statusText("alice", st), "Non-VIP")
}

func TestPartCaption(t *testing.T) {
	g := &access.PartGrant{Entry: &catalog.Entry{Code: "ep01"}, Part: deeplink.P2}
	assert.Equal(t, "🎬 ep01 — Part 2", partCaption(g))
}

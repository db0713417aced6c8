package members

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

const DateLayout = "2006-01-02"

// Row раскладывает участника в порядке колонок records.Members.
func (m Member) Row() records.Row {
	expiry := ""
	if m.Expiry != nil {
		expiry = m.Expiry.Format(DateLayout)
	}
	resetAt := ""
	if !m.QuotaResetAt.IsZero() {
		resetAt = m.QuotaResetAt.Format(time.RFC3339)
	}
	return records.Row{
		m.ExternalID,
		m.DisplayName,
		string(m.Tier),
		expiry,
		resetAt,
		strconv.Itoa(m.QuotaRemaining),
	}
}

// FromRow читает строку таблицы. Остаток квоты зажимается в [0, dailyCap].
func FromRow(r records.Row, clock Clock, dailyCap int) (*Member, error) {
	if len(r) < len(records.Columns[records.Members]) {
		return nil, fmt.Errorf("members: short row (%d fields)", len(r))
	}
	m := &Member{
		ExternalID:  strings.TrimSpace(r[0]),
		DisplayName: r[1],
		Tier:        TierNonVIP,
	}
	if strings.EqualFold(strings.TrimSpace(r[2]), string(TierVIP)) {
		m.Tier = TierVIP
	}

	if s := strings.TrimSpace(r[3]); s != "" {
		d, err := time.ParseInLocation(DateLayout, s, clock.location())
		if err != nil {
			return nil, fmt.Errorf("members: %s: bad expiry %q: %w", m.ExternalID, s, err)
		}
		m.Expiry = &d
	}

	if s := strings.TrimSpace(r[4]); s != "" {
		t, err := parseResetAt(s, clock)
		if err != nil {
			return nil, fmt.Errorf("members: %s: bad quota_reset_at %q: %w", m.ExternalID, s, err)
		}
		m.QuotaResetAt = t
	}

	if s := strings.TrimSpace(r[5]); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("members: %s: bad quota_remaining %q: %w", m.ExternalID, s, err)
		}
		m.QuotaRemaining = n
	}
	if m.QuotaRemaining < 0 {
		m.QuotaRemaining = 0
	}
	if m.QuotaRemaining > dailyCap {
		m.QuotaRemaining = dailyCap
	}
	return m, nil
}

// parseResetAt понимает RFC 3339 и голую дату из старого листа.
func parseResetAt(s string, clock Clock) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(clock.location()), nil
	}
	return time.ParseInLocation(DateLayout, s, clock.location())
}

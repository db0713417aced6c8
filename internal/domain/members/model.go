package members

import "time"

type Tier string

const (
	TierVIP    Tier = "vip"
	TierNonVIP Tier = "non-vip"
)

// DefaultDailyCap — сколько бесплатных просмотров в сутки получает участник.
const DefaultDailyCap = 5

type Member struct {
	ExternalID     string
	DisplayName    string
	Tier           Tier
	Expiry         *time.Time // дата (полночь в зоне сервиса); nil — бессрочно
	QuotaResetAt   time.Time
	QuotaRemaining int
}

// Clock — время сервиса в фиксированной зоне.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// At — текущий момент в зоне сервиса.
func (c Clock) At() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// Today — полночь текущих суток в зоне сервиса.
func (c Clock) Today() time.Time {
	return c.DateOf(c.At())
}

// DateOf отбрасывает время суток в зоне сервиса.
func (c Clock) DateOf(t time.Time) time.Time {
	t = t.In(c.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}

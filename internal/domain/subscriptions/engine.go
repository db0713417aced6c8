package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/vip-drama-bot/internal/domain/members"
)

// ErrMemberNotFound — оплата пришла на незарегистрированного участника.
var ErrMemberNotFound = errors.New("subscriptions: member not found")

// Engine выдаёт и продлевает VIP.
type Engine struct {
	members *members.Repo
}

func NewEngine(repo *members.Repo) *Engine {
	return &Engine{members: repo}
}

// IsActive: tier=vip и срок не задан (бессрочно) либо не раньше даты now.
func (e *Engine) IsActive(m *members.Member, now time.Time) bool {
	if m == nil || m.Tier != members.TierVIP {
		return false
	}
	if m.Expiry == nil {
		return true
	}
	clock := e.members.Clock()
	return !clock.DateOf(*m.Expiry).Before(clock.DateOf(now))
}

// ActiveNow — IsActive на текущий момент сервиса.
func (e *Engine) ActiveNow(m *members.Member) bool {
	return e.IsActive(m, e.members.Clock().At())
}

// GrantOrExtend ставит tier=vip и срок = сегодня + days.
// Срок всегда отсчитывается от сегодняшней даты, остаток прошлого срока не суммируется.
func (e *Engine) GrantOrExtend(ctx context.Context, externalID string, days int) (*members.Member, error) {
	if days <= 0 {
		return nil, fmt.Errorf("subscriptions: days must be positive, got %d", days)
	}
	unlock := e.members.Lock(externalID)
	defer unlock()

	m, err := e.members.Get(ctx, externalID)
	if err != nil {
		if errors.Is(err, members.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	expiry := e.members.Clock().Today().AddDate(0, 0, days)
	m.Tier = members.TierVIP
	m.Expiry = &expiry
	if err := e.members.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

package quota

import (
	"context"
	"errors"

	"github.com/Spok95/vip-drama-bot/internal/domain/members"
)

var ErrExhausted = errors.New("quota: exhausted")

// Engine — дневная бесплатная квота. Методы не берут блокировку участника:
// вызывающий держит members.Repo.Lock на всё чтение-изменение-запись.
type Engine struct {
	members *members.Repo
}

func NewEngine(repo *members.Repo) *Engine {
	return &Engine{members: repo}
}

func (e *Engine) Cap() int { return e.members.DailyCap() }

// RefillIfStale восстанавливает квоту, если последний сброс был до сегодняшней даты.
// Возвращает true, если запись изменилась.
func (e *Engine) RefillIfStale(ctx context.Context, m *members.Member) (bool, error) {
	clock := e.members.Clock()
	if !m.QuotaResetAt.IsZero() && !clock.DateOf(m.QuotaResetAt).Before(clock.Today()) {
		return false, nil
	}

	prevRemaining, prevReset := m.QuotaRemaining, m.QuotaResetAt
	m.QuotaRemaining = e.Cap()
	m.QuotaResetAt = clock.At()
	if err := e.members.Save(ctx, m); err != nil {
		m.QuotaRemaining, m.QuotaResetAt = prevRemaining, prevReset
		return false, err
	}
	return true, nil
}

func (e *Engine) Remaining(m *members.Member) int {
	return m.QuotaRemaining
}

// ConsumeOne — единственное место, где квота уменьшается.
func (e *Engine) ConsumeOne(ctx context.Context, m *members.Member) error {
	if m.QuotaRemaining <= 0 {
		return ErrExhausted
	}
	m.QuotaRemaining--
	if err := e.members.Save(ctx, m); err != nil {
		m.QuotaRemaining++
		return err
	}
	return nil
}

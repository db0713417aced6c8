package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

var ErrNotFound = errors.New("members: not found")

const anonymous = "anonymous"

type Repo struct {
	store    *records.Store
	clock    Clock
	dailyCap int
	locks    *keyLocks
}

func NewRepo(store *records.Store, clock Clock, dailyCap int) *Repo {
	if dailyCap <= 0 {
		dailyCap = DefaultDailyCap
	}
	return &Repo{store: store, clock: clock, dailyCap: dailyCap, locks: newKeyLocks()}
}

func (r *Repo) Clock() Clock { return r.clock }
func (r *Repo) DailyCap() int { return r.dailyCap }

// Lock сериализует чтение-изменение-запись по одному участнику внутри процесса.
// Возвращает функцию разблокировки.
func (r *Repo) Lock(externalID string) func() {
	return r.locks.lock(externalID)
}

func (r *Repo) Get(ctx context.Context, externalID string) (*Member, error) {
	row, err := r.store.Get(ctx, records.Members, externalID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return FromRow(row, r.clock, r.dailyCap)
}

// Ensure возвращает существующего участника или регистрирует нового
// (non-vip, полная квота, без срока VIP). created=true для новой записи.
func (r *Repo) Ensure(ctx context.Context, externalID, displayName string) (m *Member, created bool, err error) {
	if externalID == "" {
		return nil, false, fmt.Errorf("members: empty external id")
	}
	m, err = r.Get(ctx, externalID)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	if displayName == "" {
		displayName = anonymous
	}
	m = &Member{
		ExternalID:     externalID,
		DisplayName:    displayName,
		Tier:           TierNonVIP,
		QuotaResetAt:   r.clock.At(),
		QuotaRemaining: r.dailyCap,
	}
	if err := r.store.Append(ctx, records.Members, m.Row()); err != nil {
		if errors.Is(err, records.ErrConflict) {
			// строку успел создать другой процесс
			m, err = r.Get(ctx, externalID)
			return m, false, err
		}
		return nil, false, err
	}
	return m, true, nil
}

func (r *Repo) Save(ctx context.Context, m *Member) error {
	return r.store.Put(ctx, records.Members, m.ExternalID, m.Row())
}

package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

var ErrNotFound = errors.New("catalog: content not found")

type Resolver struct {
	store *records.Store
}

func NewResolver(store *records.Store) *Resolver { return &Resolver{store: store} }

func (r *Resolver) Lookup(ctx context.Context, code string) (*Entry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}
	row, err := r.store.Get(ctx, records.Catalog, code)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return FromRow(row)
}

// ReferenceFor возвращает VIP-ссылку при wantVIP, иначе бесплатную.
func (r *Resolver) ReferenceFor(ctx context.Context, code string, wantVIP bool) (Reference, error) {
	e, err := r.Lookup(ctx, code)
	if err != nil {
		return "", err
	}
	if wantVIP {
		return Reference(e.VIPReference), nil
	}
	return Reference(e.FreeReference), nil
}

package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

// Repo хранит состояние диалога в таблице records.Dialogs.
type Repo struct {
	store *records.Store
}

func NewRepo(store *records.Store) *Repo { return &Repo{store: store} }

func (r *Repo) Get(ctx context.Context, chatID int64) (*Item, error) {
	row, err := r.store.Get(ctx, records.Dialogs, key(chatID))
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			// строки нет — состояния пока нет
			return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
		}
		return nil, err
	}
	p := Payload{}
	_ = json.Unmarshal([]byte(row[2]), &p)
	state := State(row[1])
	if state == "" {
		state = StateIdle
	}
	return &Item{ChatID: chatID, State: state, Payload: p}, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, records.Dialogs, key(chatID), records.Row{key(chatID), string(state), string(raw)})
}

func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	return r.Set(ctx, chatID, StateIdle, nil)
}

func key(chatID int64) string { return strconv.FormatInt(chatID, 10) }

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/vip-drama-bot/internal/infra/metrics"
	"github.com/sethvargo/go-retry"
)

var (
	ErrNotFound    = errors.New("records: not found")
	ErrConflict    = errors.New("records: key already exists")
	ErrUnavailable = errors.New("records: store unavailable")
)

type Table string

const (
	Members Table = "members"
	Catalog Table = "catalog"
	Dialogs Table = "dialogs"
)

// Columns — порядок колонок каждой таблицы. Это контракт хранилища:
// первая колонка всегда ключ.
var Columns = map[Table][]string{
	Members: {"external_id", "display_name", "tier", "expiry", "quota_reset_at", "quota_remaining"},
	Catalog: {"code", "title", "free_reference", "vip_reference", "part2_gated"},
	Dialogs: {"chat_id", "state", "payload"},
}

// Row — одна строка таблицы в порядке Columns.
type Row []string

func (r Row) Key() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Backend — конкретное табличное хранилище (Postgres, xlsx, память).
type Backend interface {
	Get(ctx context.Context, table Table, key string) (Row, error)
	Put(ctx context.Context, table Table, key string, row Row) error
	Append(ctx context.Context, table Table, row Row) error
	// Reset переоткрывает соединение после неудачной попытки.
	Reset(ctx context.Context) error
}

type Options struct {
	Attempts       uint64
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Attempts == 0 {
		o.Attempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 5 * time.Second
	}
	return o
}

// Store оборачивает Backend ограниченным числом повторов.
type Store struct {
	backend Backend
	opts    Options
	log     *slog.Logger
}

func New(backend Backend, opts Options, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, opts: opts.withDefaults(), log: log}
}

func (s *Store) Get(ctx context.Context, table Table, key string) (Row, error) {
	var out Row
	err := s.do(ctx, "get", table, func(ctx context.Context) error {
		row, err := s.backend.Get(ctx, table, key)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, table Table, key string, row Row) error {
	if err := checkWidth(table, row); err != nil {
		return err
	}
	if row.Key() != key {
		return fmt.Errorf("records: put %s: row key %q does not match %q", table, row.Key(), key)
	}
	return s.do(ctx, "put", table, func(ctx context.Context) error {
		return s.backend.Put(ctx, table, key, row)
	})
}

func (s *Store) Append(ctx context.Context, table Table, row Row) error {
	if err := checkWidth(table, row); err != nil {
		return err
	}
	return s.do(ctx, "append", table, func(ctx context.Context) error {
		return s.backend.Append(ctx, table, row)
	})
}

func (s *Store) do(ctx context.Context, op string, table Table, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(s.opts.Attempts-1,
		retry.WithJitterPercent(10, retry.NewExponential(s.opts.Backoff)))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		actx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
		err := fn(actx)
		cancel()

		switch {
		case err == nil:
			metrics.StoreAttempts.WithLabelValues(op, "ok").Inc()
			return nil
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
			// окончательный ответ хранилища, повторять нечего
			metrics.StoreAttempts.WithLabelValues(op, "ok").Inc()
			return err
		}

		metrics.StoreAttempts.WithLabelValues(op, "error").Inc()
		s.log.Warn("store attempt failed",
			"op", op, "table", string(table), "attempt", attempt, "err", err)
		if rerr := s.backend.Reset(ctx); rerr != nil {
			s.log.Error("store reset failed", "err", rerr)
		}
		return retry.RetryableError(err)
	})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %s %s after %d attempts: %v", ErrUnavailable, op, table, attempt, err)
}

func checkWidth(table Table, row Row) error {
	cols, ok := Columns[table]
	if !ok {
		return fmt.Errorf("records: unknown table %q", table)
	}
	if len(row) != len(cols) {
		return fmt.Errorf("records: %s row has %d fields, want %d", table, len(row), len(cols))
	}
	return nil
}

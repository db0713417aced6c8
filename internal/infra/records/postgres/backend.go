package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Spok95/vip-drama-bot/internal/infra/db"
	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Backend хранит каждую таблицу records в одноимённой таблице Postgres.
// Все колонки текстовые, в порядке records.Columns.
type Backend struct {
	dsn string

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Backend{dsn: dsn, pool: pool}, nil
}

func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

func (b *Backend) conn() (*pgxpool.Pool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.pool == nil {
		return nil, errors.New("postgres: pool is closed")
	}
	return b.pool, nil
}

func (b *Backend) Get(ctx context.Context, table records.Table, key string) (records.Row, error) {
	cols, err := columns(table)
	if err != nil {
		return nil, err
	}
	pool, err := b.conn()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(cols, ", "), pgx.Identifier{string(table)}.Sanitize(), cols[0])

	row := make(records.Row, len(cols))
	dest := make([]any, len(cols))
	for i := range row {
		dest[i] = &row[i]
	}
	if err := pool.QueryRow(ctx, q, key).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, records.ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

func (b *Backend) Put(ctx context.Context, table records.Table, _ string, row records.Row) error {
	cols, err := columns(table)
	if err != nil {
		return err
	}
	pool, err := b.conn()
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	q := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT (%s) DO UPDATE SET %s`,
		pgx.Identifier{string(table)}.Sanitize(), strings.Join(cols, ", "), placeholders(len(cols)),
		cols[0], strings.Join(sets, ", "))

	_, err = pool.Exec(ctx, q, args(row)...)
	return err
}

func (b *Backend) Append(ctx context.Context, table records.Table, row records.Row) error {
	cols, err := columns(table)
	if err != nil {
		return err
	}
	pool, err := b.conn()
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		pgx.Identifier{string(table)}.Sanitize(), strings.Join(cols, ", "), placeholders(len(cols)))

	if _, err := pool.Exec(ctx, q, args(row)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return records.ErrConflict
		}
		return err
	}
	return nil
}

// Reset пересоздаёт пул: старые соединения закрываются.
func (b *Backend) Reset(ctx context.Context) error {
	pool, err := db.Connect(ctx, b.dsn)
	if err != nil {
		return err
	}
	b.mu.Lock()
	old := b.pool
	b.pool = pool
	b.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func columns(table records.Table) ([]string, error) {
	cols, ok := records.Columns[table]
	if !ok {
		return nil, fmt.Errorf("postgres: unknown table %q", table)
	}
	return cols, nil
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

func args(row records.Row) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

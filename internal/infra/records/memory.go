package records

import (
	"context"
	"errors"
	"sync"
)

var errInjected = errors.New("records: injected failure")

// Memory — хранилище в памяти: для тестов и для store.backend=memory.
type Memory struct {
	mu       sync.Mutex
	tables   map[Table]map[string]Row
	calls    map[string]int
	failNext int
	resets   int
}

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[Table]map[string]Row),
		calls:  make(map[string]int),
	}
}

// Seed кладёт строки без учёта счётчиков вызовов.
func (m *Memory) Seed(table Table, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.table(table)[r.Key()] = clone(r)
	}
}

// FailNext заставляет следующие n вызовов вернуть ошибку.
func (m *Memory) FailNext(n int) {
	m.mu.Lock()
	m.failNext = n
	m.mu.Unlock()
}

// Calls — число вызовов операции ("get", "put", "append").
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Memory) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

func (m *Memory) Get(_ context.Context, table Table, key string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("get"); err != nil {
		return nil, err
	}
	r, ok := m.table(table)[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *Memory) Put(_ context.Context, table Table, key string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("put"); err != nil {
		return err
	}
	m.table(table)[key] = clone(row)
	return nil
}

func (m *Memory) Append(_ context.Context, table Table, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("append"); err != nil {
		return err
	}
	t := m.table(table)
	if _, ok := t[row.Key()]; ok {
		return ErrConflict
	}
	t[row.Key()] = clone(row)
	return nil
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()
	return nil
}

func (m *Memory) enter(op string) error {
	m.calls[op]++
	if m.failNext > 0 {
		m.failNext--
		return errInjected
	}
	return nil
}

func (m *Memory) table(t Table) map[string]Row {
	tbl, ok := m.tables[t]
	if !ok {
		tbl = make(map[string]Row)
		m.tables[t] = tbl
	}
	return tbl
}

func clone(r Row) Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

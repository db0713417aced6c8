package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/xuri/excelize/v2"
)

// Backend держит таблицы в xlsx-книге: один лист на таблицу, первая строка — заголовок,
// ключ в колонке A. Каждое изменение сразу сохраняется на диск.
type Backend struct {
	path string

	mu sync.Mutex
	f  *excelize.File
}

func Open(path string) (*Backend, error) {
	b := &Backend{path: path}
	if err := b.open(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) open() error {
	if _, err := os.Stat(b.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		for _, t := range []records.Table{records.Members, records.Catalog, records.Dialogs} {
			if err := ensureSheet(f, t); err != nil {
				return err
			}
		}
		_ = f.DeleteSheet("Sheet1")
		if err := f.SaveAs(b.path); err != nil {
			return fmt.Errorf("workbook: create %s: %w", b.path, err)
		}
		b.f = f
		return nil
	}

	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return fmt.Errorf("workbook: open %s: %w", b.path, err)
	}
	b.f = f
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

func (b *Backend) Get(_ context.Context, table records.Table, key string) (records.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.rows(table)
	if err != nil {
		return nil, err
	}
	if i := find(rows, key); i > 0 {
		return pad(rows[i], len(records.Columns[table])), nil
	}
	return nil, records.ErrNotFound
}

func (b *Backend) Put(_ context.Context, table records.Table, key string, row records.Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.rows(table)
	if err != nil {
		return err
	}
	at := find(rows, key)
	if at < 0 {
		at = len(rows)
	}
	return b.write(table, at, row)
}

func (b *Backend) Append(_ context.Context, table records.Table, row records.Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.rows(table)
	if err != nil {
		return err
	}
	if find(rows, row.Key()) > 0 {
		return records.ErrConflict
	}
	return b.write(table, len(rows), row)
}

// Reset перечитывает книгу с диска.
func (b *Backend) Reset(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f != nil {
		_ = b.f.Close()
		b.f = nil
	}
	return b.open()
}

func (b *Backend) rows(table records.Table) ([][]string, error) {
	if b.f == nil {
		return nil, errors.New("workbook: file is closed")
	}
	if _, ok := records.Columns[table]; !ok {
		return nil, fmt.Errorf("workbook: unknown table %q", table)
	}
	if err := ensureSheet(b.f, table); err != nil {
		return nil, err
	}
	rows, err := b.f.GetRows(string(table))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// пустой лист без заголовка: строка 1 зарезервирована
		rows = [][]string{records.Columns[table]}
	}
	return rows, nil
}

// write пишет строку по 0-based индексу idx (idx 0 — заголовок) и сохраняет файл.
func (b *Backend) write(table records.Table, idx int, row records.Row) error {
	cell, err := excelize.CoordinatesToCellName(1, idx+1)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	if err := b.f.SetSheetRow(string(table), cell, &vals); err != nil {
		return err
	}
	return b.f.SaveAs(b.path)
}

func ensureSheet(f *excelize.File, table records.Table) error {
	idx, err := f.GetSheetIndex(string(table))
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(string(table)); err != nil {
		return err
	}
	header := make([]interface{}, 0, len(records.Columns[table]))
	for _, c := range records.Columns[table] {
		header = append(header, c)
	}
	return f.SetSheetRow(string(table), "A1", &header)
}

// find возвращает индекс строки с ключом или -1. Заголовок не учитывается.
func find(rows [][]string, key string) int {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == key {
			return i
		}
	}
	return -1
}

func pad(r []string, n int) records.Row {
	out := make(records.Row, n)
	copy(out, r)
	return out
}

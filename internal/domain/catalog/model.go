package catalog

import (
	"fmt"
	"strings"

	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

// Entry — одна серия/фильм каталога.
type Entry struct {
	Code          string
	Title         string
	FreeReference string
	VIPReference  string
	Part2Gated    bool
}

// Reference — указатель на контент в системе доставки (ссылка или chat/message).
type Reference string

func (e Entry) Row() records.Row {
	gated := "FALSE"
	if e.Part2Gated {
		gated = "TRUE"
	}
	return records.Row{e.Code, e.Title, e.FreeReference, e.VIPReference, gated}
}

func FromRow(r records.Row) (*Entry, error) {
	if len(r) < len(records.Columns[records.Catalog]) {
		return nil, fmt.Errorf("catalog: short row (%d fields)", len(r))
	}
	gated, err := parseGated(r[4])
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", r[0], err)
	}
	return &Entry{
		Code:          strings.TrimSpace(r[0]),
		Title:         r[1],
		FreeReference: strings.TrimSpace(r[2]),
		VIPReference:  strings.TrimSpace(r[3]),
		Part2Gated:    gated,
	}, nil
}

// parseGated: пустая ячейка считается закрытой частью.
func parseGated(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "1", "yes", "ya", "y":
		return true, nil
	case "false", "0", "no", "tidak", "n":
		return false, nil
	}
	return false, fmt.Errorf("bad part2_gated %q", s)
}

package billing

import (
	"sort"
	"strings"
)

// Package — товар Trakteer: сколько дней VIP он даёт и за сколько.
type Package struct {
	ID    string
	Title string
	Days  int
	Price int
	URL   string // страница оплаты
}

type Packages map[string]Package

// DefaultPackages повторяет кнопки /vip исходного бота.
func DefaultPackages() Packages {
	return Packages{
		"vip1hari":  {ID: "vip1hari", Title: "VIP 1 Hari", Days: 1, Price: 2000, URL: "https://trakteer.id/link1"},
		"vip3hari":  {ID: "vip3hari", Title: "VIP 3 Hari", Days: 3, Price: 5000, URL: "https://trakteer.id/link2"},
		"vip7hari":  {ID: "vip7hari", Title: "VIP 7 Hari", Days: 7, Price: 10000, URL: "https://trakteer.id/link3"},
		"vip30hari": {ID: "vip30hari", Title: "VIP 30 Hari", Days: 30, Price: 30000, URL: "https://trakteer.id/link4"},
		"vip5bulan": {ID: "vip5bulan", Title: "VIP 5 Bulan", Days: 150, Price: 150000, URL: "https://trakteer.id/link5"},
	}
}

func (p Packages) Lookup(id string) (Package, bool) {
	pkg, ok := p[strings.TrimSpace(id)]
	return pkg, ok
}

// Sorted — по числу дней, при равенстве по цене.
func (p Packages) Sorted() []Package {
	out := make([]Package, 0, len(p))
	for _, pkg := range p {
		out = append(out, pkg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days < out[j].Days
		}
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}

package core

import "strings"

// Page identifies one dashboard page and its spreadsheet.
type Page string

const (
	Contracts Page = "contratos"
	Equipment Page = "equipamentos"
	Billing   Page = "faturamento"
	Services  Page = "servicos"
)

// Pages lists every dashboard page in display order.
func Pages() []Page {
	return []Page{Contracts, Equipment, Billing, Services}
}

// ParsePage accepts a page name in any case.
func ParsePage(s string) (Page, bool) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// EnvPrefix is the upper-case prefix of the page's environment keys,
// e.g. CONTRATOS for CONTRATOS_CSV_URL.
func (p Page) EnvPrefix() string {
	return strings.ToUpper(string(p))
}

func (p Page) String() string {
	return string(p)
}

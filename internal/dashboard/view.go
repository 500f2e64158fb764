package dashboard

import (
	"time"

	"painel/internal/aggregate"
	"painel/internal/core"
)

// KPI is one headline figure. Text is the pt-BR rendering of Value.
type KPI struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// Chart kinds understood by the presentation layer.
const (
	ChartBar      = "bar"
	ChartDoughnut = "doughnut"
)

// Chart units tell how series values are displayed.
const (
	UnitCurrency = "currency"
	UnitCount    = "count"
)

// Dataset is one labelled series of a chart.
type Dataset struct {
	Label  string           `json:"label"`
	Series aggregate.Series `json:"series"`
}

// Chart groups the datasets drawn together.
type Chart struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Kind     string    `json:"kind"`
	Unit     string    `json:"unit"`
	Datasets []Dataset `json:"datasets"`
}

// FilterOptions lists the choices of one filter control.
type FilterOptions struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// Numeric columns are right aligned and exported as numbers.
	Numeric bool `json:"numeric,omitempty"`
}

// Table is the filtered record set rendered as display text.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// Values holds the raw numbers of numeric cells, aligned with Rows.
	Values [][]float64 `json:"-"`
}

// Status describes the last refresh of a page.
type Status struct {
	Page        core.Page `json:"page"`
	Title       string    `json:"title"`
	Loaded      bool      `json:"loaded"`
	Refreshing  bool      `json:"refreshing"`
	Records     int       `json:"records"`
	Dropped     int       `json:"droppedRows"`
	Generation  uint64    `json:"generation"`
	LastSuccess time.Time `json:"lastSuccess,omitzero"`
	LastAttempt time.Time `json:"lastAttempt,omitzero"`
	ErrorKind   string    `json:"errorKind,omitempty"`
	Error       string    `json:"error,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// Attempted reports whether at least one refresh finished.
func (s Status) Attempted() bool {
	return !s.LastAttempt.IsZero()
}

// View is everything the presentation layer renders for one page under
// one filter.
type View struct {
	Page     core.Page          `json:"page"`
	Title    string             `json:"title"`
	Filter   aggregate.Criteria `json:"filter"`
	KPIs     []KPI              `json:"kpis"`
	Charts   []Chart            `json:"charts"`
	Filters  []FilterOptions    `json:"filters"`
	Table    Table              `json:"table"`
	Records  any                `json:"records"`
	Status   Status             `json:"status"`
	Computed time.Time          `json:"computedAt"`
}

// KPI returns the figure with key.
func (v View) KPI(key string) (KPI, bool) {
	for _, k := range v.KPIs {
		if k.Key == key {
			return k, true
		}
	}
	return KPI{}, false
}

// Chart returns the chart with key.
func (v View) Chart(key string) (Chart, bool) {
	for _, c := range v.Charts {
		if c.Key == key {
			return c, true
		}
	}
	return Chart{}, false
}

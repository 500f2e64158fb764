package ingest

import (
	"fmt"
	"strings"

	"painel/internal/core"
)

// Kind selects the scalar parser applied to a field.
type Kind int

const (
	// Text is kept verbatim after trimming.
	Text Kind = iota
	// Currency is a pt-BR amount, see core.ParseBRL.
	Currency
	// Date accepts DD/MM/YYYY only.
	Date
	// FlexibleDate also accepts YYYY-MM-DD and YYYY/MM/DD.
	FlexibleDate
)

// Field describes one logical column of a page.
type Field struct {
	Name     string
	Synonyms []string
	Kind     Kind
	Required bool
	// Default replaces a blank cell.
	Default string
}

// Schema describes how a page's rows become records of type T.
type Schema[T any] struct {
	Name   string
	Fields []Field
	// Identity lists the fields of which at least one must be non-blank for
	// a row to be kept. Other rows are structurally empty and dropped.
	Identity []string
	Build    func(Row) T
}

// Row exposes the cells of one data row by logical field name. Missing
// columns and ragged rows read as blank.
type Row struct {
	cells map[string]string
	kinds map[string]Kind
}

// Text returns the trimmed cell text, with the field default applied.
func (r Row) Text(name string) string {
	return r.cells[name]
}

// Amount parses the cell as currency; blank or malformed cells are 0.
func (r Row) Amount(name string) float64 {
	return core.ParseBRL(r.cells[name])
}

// Date parses the cell with the field's date parser; failures are absent.
func (r Row) Date(name string) core.Date {
	var d core.Date
	switch r.kinds[name] {
	case FlexibleDate:
		d, _ = core.ParseFlexibleDate(r.cells[name])
	default:
		d, _ = core.ParseDate(r.cells[name])
	}
	return d
}

// Result is the outcome of decoding one table.
type Result[T any] struct {
	Records []T
	Columns HeaderMap
	// Dropped counts structurally empty rows.
	Dropped int
}

// Decode resolves the table header against the schema and maps every data
// row to a record. It only fails when a required column is missing.
func Decode[T any](table Table, schema Schema[T]) (Result[T], error) {
	if table.Empty() {
		return Result[T]{}, nil
	}
	hm, err := ResolveHeaders(table.Header, schema.Fields)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%s: %w", schema.Name, err)
	}
	kinds := make(map[string]Kind, len(schema.Fields))
	for _, f := range schema.Fields {
		kinds[f.Name] = f.Kind
	}
	res := Result[T]{Records: make([]T, 0, len(table.Rows)), Columns: hm}
	for _, tokens := range table.Rows {
		row, ok := schema.row(hm, kinds, tokens)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, schema.Build(row))
	}
	return res, nil
}

func (s Schema[T]) row(hm HeaderMap, kinds map[string]Kind, tokens []string) (Row, bool) {
	cells := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		cells[f.Name] = strings.TrimSpace(safeGet(tokens, hm.Index(f.Name)))
	}
	keep := false
	for _, id := range s.Identity {
		if cells[id] != "" {
			keep = true
			break
		}
	}
	if !keep {
		return Row{}, false
	}
	for _, f := range s.Fields {
		if cells[f.Name] == "" && f.Default != "" {
			cells[f.Name] = f.Default
		}
	}
	return Row{cells: cells, kinds: kinds}, true
}

package ingest

import (
	"strings"

	"painel/internal/core"
)

const htmlHint = "A resposta foi um HTML. Verifique se o link foi publicado como 'CSV' e se a planilha está pública."

// Table is a raw spreadsheet export: the header cells and the tokenized data
// rows. It only lives for the duration of one fetch.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the export had no header row at all.
func (t Table) Empty() bool {
	return len(t.Header) == 0
}

// ParseBody validates a fetched body and splits it into a Table.
//
// A body whose trimmed text starts with '<' is an HTML page (typically an
// unpublished or private spreadsheet) and yields *core.FormatError. An empty
// body yields an empty Table and no error.
func ParseBody(body string) (Table, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(body, "\ufeff"))
	if strings.HasPrefix(trimmed, "<") {
		return Table{}, &core.FormatError{Msg: "response body is HTML, not CSV", Hint: htmlHint}
	}
	if trimmed == "" {
		return Table{}, nil
	}
	lines := strings.Split(trimmed, "\n")
	t := Table{
		Header: Tokenize(lines[0]),
		Rows:   make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, Tokenize(line))
	}
	return t, nil
}

// FromMatrix builds a Table from an already split values matrix, such as
// the one returned by the Sheets API. The first row is the header.
func FromMatrix(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	clean := func(row []string) []string {
		out := make([]string, len(row))
		for i, v := range row {
			out[i] = strings.TrimSpace(strings.ReplaceAll(v, `"`, ""))
		}
		return out
	}
	t := Table{Header: clean(values[0]), Rows: make([][]string, 0, len(values)-1)}
	for _, row := range values[1:] {
		t.Rows = append(t.Rows, clean(row))
	}
	return t
}

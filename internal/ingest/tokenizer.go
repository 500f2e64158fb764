package ingest

import (
	"encoding/csv"
	"strings"
)

// Tokenize splits one CSV line into trimmed tokens. A double-quoted span may
// contain commas and counts as a single token; quotes are stripped from the
// result. Empty fields are kept so column positions stay aligned. A blank
// line yields no tokens.
//
// Escaped quotes and newlines inside quotes are not supported: the input is
// a single physical line.
func Tokenize(line string) []string {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		// Unbalanced quoting; fall back to a plain split rather than losing the row.
		fields = strings.Split(line, ",")
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(strings.ReplaceAll(f, `"`, ""))
	}
	return out
}

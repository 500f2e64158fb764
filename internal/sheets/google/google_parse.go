package google

import (
	"fmt"
	"strings"

	"painel/internal/ingest"
)

// toTable converts a values matrix as returned by the Sheets API. Formatted
// values keep the sheet's pt-BR rendering, so cells go through the same
// parsers as a CSV export.
func toTable(values [][]interface{}) ingest.Table {
	matrix := make([][]string, 0, len(values))
	for _, row := range values {
		matrix = append(matrix, toStrings(row))
	}
	return ingest.FromMatrix(matrix)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

package sheets

import (
	"context"
	"strings"

	"painel/internal/ingest"
)

// Ports for outbound adapters.
type (
	// TableReader returns the current export of one page's spreadsheet.
	// Implementations do not retry; a failed fetch is reported as one of
	// the typed errors in package core.
	TableReader interface {
		Fetch(ctx context.Context) (ingest.Table, error)
	}
)

// IsPlaceholderURL reports whether s is still one of the template markers
// shipped with the dashboard pages instead of a real published link.
func IsPlaceholderURL(s string) bool {
	upper := strings.ToUpper(s)
	for _, marker := range []string{"SEU_LINK_CSV", "COLOQUE_SEU_LINK", "YOUR_CSV_URL"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

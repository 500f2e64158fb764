package backend

import (
	"context"
	"time"

	"painel/internal/core"
	"painel/internal/sheets"
)

// Sources maps every dashboard page to the reader of its spreadsheet.
type Sources map[core.Page]sheets.TableReader

// Factory creates page sources based on configuration
type Factory interface {
	// CreateSources creates one reader per page for the configured backend.
	CreateSources(ctx context.Context, config Config) (Sources, error)
}

// PageLocation addresses one page's spreadsheet in every backend.
type PageLocation struct {
	CSVURL        string
	SpreadsheetID string
	SheetRange    string
}

// Config holds configuration for source creation
type Config struct {
	// Backend type
	Type BackendType

	Pages map[core.Page]PageLocation

	// Published and sheets backends
	FetchTimeout time.Duration

	// Sheets API specific
	GoogleAPIKey string

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	PublishedBackend BackendType = "published"
	SheetsBackend    BackendType = "sheets"
	MemoryBackend    BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case PublishedBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

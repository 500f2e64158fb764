package backend

import (
	"context"
	"fmt"

	"painel/internal/core"
	"painel/internal/log"
	gsheet "painel/internal/sheets/google"
	"painel/internal/sheets/memory"
	"painel/internal/sheets/published"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateSources implements Factory.CreateSources
func (f *DefaultFactory) CreateSources(ctx context.Context, config Config) (Sources, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case PublishedBackend:
		return f.createPublishedSources(config), nil
	case SheetsBackend:
		return f.createSheetsSources(ctx, config)
	case MemoryBackend:
		return f.createMemorySources(config), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createPublishedSources(config Config) Sources {
	sources := make(Sources, len(core.Pages()))
	configured := 0
	for _, page := range core.Pages() {
		loc := config.Pages[page]
		if loc.CSVURL != "" {
			configured++
		}
		sources[page] = published.New(loc.CSVURL, published.WithTimeout(config.FetchTimeout))
	}

	f.logger.Info("Initialized published CSV sources",
		"pages_configured", configured,
		log.FieldBackend, config.Type.String(),
		"fetch_timeout", config.FetchTimeout)

	return sources
}

func (f *DefaultFactory) createSheetsSources(ctx context.Context, config Config) (Sources, error) {
	svc, err := gsheet.NewService(ctx, config.GoogleAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	sources := make(Sources, len(core.Pages()))
	for _, page := range core.Pages() {
		loc := config.Pages[page]
		sources[page] = gsheet.New(svc, loc.SpreadsheetID, loc.SheetRange, config.FetchTimeout)
	}

	f.logger.Info("Initialized Google Sheets API sources")

	return sources, nil
}

func (f *DefaultFactory) createMemorySources(config Config) Sources {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	sources := make(Sources, len(core.Pages()))
	for _, page := range core.Pages() {
		sources[page] = memory.NewFromFiles(dataDir, page)
	}

	f.logger.Info("Initialized memory sources", "data_directory", dataDir)

	return sources
}

package backend

import (
	"fmt"

	"painel/internal/config"
	"painel/internal/core"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	pages := make(map[core.Page]PageLocation, len(appConfig.Sources))
	for page, src := range appConfig.Sources {
		pages[page] = PageLocation{
			CSVURL:        src.CSVURL,
			SpreadsheetID: src.SpreadsheetID,
			SheetRange:    src.SheetRange,
		}
	}

	return Config{
		Type:          backendType,
		Pages:         pages,
		FetchTimeout:  appConfig.FetchTimeout,
		GoogleAPIKey:  appConfig.GoogleAPIKey,
		DataDirectory: appConfig.DataDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SheetsBackend:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("Google API key is required for sheets backend")
		}
	case PublishedBackend, MemoryBackend:
		// Missing page locations surface per page on refresh.
	}

	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := []BackendType{PublishedBackend, SheetsBackend, MemoryBackend}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

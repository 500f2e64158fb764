package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"painel/internal/aggregate"
	"painel/internal/core"
	"painel/internal/sheets"
)

// PageSource locates one page's spreadsheet for every backend.
type PageSource struct {
	// CSVURL is the "publish to the web" CSV link (published backend).
	CSVURL string
	// SpreadsheetID and SheetRange address the sheet through the Sheets API
	// (sheets backend).
	SpreadsheetID string
	SheetRange    string
}

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// Backend selection
	DataBackend string
	DataDir     string

	// Per page sources
	Sources map[core.Page]PageSource

	// Google Sheets API
	GoogleAPIKey string

	// Fetch and view cache
	FetchTimeout  time.Duration
	ViewCacheTTL  time.Duration
	ViewCacheSize int

	// Business thresholds
	ContractExpiryDays       int
	MaintenanceOverdueMonths int

	// AMQP
	AMQPURL          string
	AMQPExchange     string
	AMQPRefreshQueue string
}

// Backends accepted by DATA_BACKEND.
var validBackends = []string{"published", "sheets", "memory"}

func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend: getEnv("DATA_BACKEND", "published"),
		DataDir:     getEnv("DATA_DIR", "data"),

		Sources: make(map[core.Page]PageSource, len(core.Pages())),

		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),

		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 0),
		ViewCacheTTL:  getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),
		ViewCacheSize: getEnvInt("VIEW_CACHE_SIZE", 256),

		ContractExpiryDays:       getEnvInt("CONTRACT_EXPIRY_DAYS", aggregate.ContractExpiryWindowDays),
		MaintenanceOverdueMonths: getEnvInt("MAINTENANCE_OVERDUE_MONTHS", aggregate.MaintenanceOverdueMonths),

		AMQPURL:          getEnv("AMQP_URL", ""),
		AMQPExchange:     getEnv("AMQP_EXCHANGE", "painel"),
		AMQPRefreshQueue: getEnv("AMQP_REFRESH_QUEUE", "painel.refresh"),
	}

	for _, p := range core.Pages() {
		prefix := p.EnvPrefix()
		cfg.Sources[p] = PageSource{
			CSVURL:        strings.TrimSpace(getEnv(prefix+"_CSV_URL", "")),
			SpreadsheetID: strings.TrimSpace(getEnv(prefix+"_SPREADSHEET_ID", "")),
			SheetRange:    getEnv(prefix+"_SHEET_RANGE", "A:Z"),
		}
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// Unset page sources are not an error here: the affected page reports a
// configuration error on refresh while the others keep working.
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate data backend
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "memory" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using memory backend")
	}

	if c.DataBackend == "sheets" && c.GoogleAPIKey == "" {
		errors = append(errors, "GOOGLE_API_KEY is required when using sheets backend")
	}

	if c.DataBackend == "published" {
		for _, p := range core.Pages() {
			raw := c.Sources[p].CSVURL
			if raw == "" || sheets.IsPlaceholderURL(raw) {
				continue
			}
			if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errors = append(errors, fmt.Sprintf("invalid %s_CSV_URL '%s': must be an http(s) URL", p.EnvPrefix(), raw))
			}
		}
	}

	if c.FetchTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must not be negative", c.FetchTimeout))
	}
	if c.ViewCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must not be negative", c.ViewCacheTTL))
	}
	if c.ViewCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at least 1", c.ViewCacheSize))
	} else if c.ViewCacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at most 100000", c.ViewCacheSize))
	}

	if c.ContractExpiryDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid contract expiry window %d: must be at least 1 day", c.ContractExpiryDays))
	}
	if c.MaintenanceOverdueMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid maintenance overdue threshold %d: must be at least 1 month", c.MaintenanceOverdueMonths))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRefreshQueue == "" {
			errors = append(errors, "AMQP refresh queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}

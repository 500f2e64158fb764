package core

import (
	"errors"
	"fmt"
)

// Error kinds reported to the presentation layer, logs and refresh events.
const (
	KindConfiguration = "configuration_error"
	KindNetwork       = "network_error"
	KindFormat        = "format_error"
	KindMissingColumn = "missing_column_error"
	KindInternal      = "internal_error"
)

// ConfigurationError means the page source location is unset or still a
// placeholder. Retrying will not help until the setup is fixed.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// NetworkError carries either a non-success HTTP status or a transport failure.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("network: unexpected status %d", e.Status)
	}
	if e.Err != nil {
		return "network: " + e.Err.Error()
	}
	return "network: request failed"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FormatError means the body is not CSV, usually an HTML page served for an
// unpublished or private spreadsheet.
type FormatError struct {
	Msg  string
	Hint string
}

func (e *FormatError) Error() string {
	return "format: " + e.Msg
}

// MissingColumnError reports a required logical column absent from the
// header row. Suggestion holds the closest header found, if any.
type MissingColumnError struct {
	Field      string
	Expected   string
	Suggestion string
}

func (e *MissingColumnError) Error() string {
	msg := fmt.Sprintf("required column %q not found in header", e.Expected)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (closest: %q)", e.Suggestion)
	}
	return msg
}

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		cfgErr *ConfigurationError
		netErr *NetworkError
		fmtErr *FormatError
		colErr *MissingColumnError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &fmtErr):
		return KindFormat
	case errors.As(err, &colErr):
		return KindMissingColumn
	default:
		return KindInternal
	}
}

// Hint returns a user-facing remediation message for err.
func Hint(err error) string {
	var (
		fmtErr *FormatError
		colErr *MissingColumnError
	)
	switch ErrorKind(err) {
	case KindConfiguration:
		return "URL da planilha não configurada. Defina o link CSV publicado da página."
	case KindNetwork:
		return "Não foi possível buscar os dados. Verifique o link, a permissão da planilha e sua conexão."
	case KindFormat:
		if errors.As(err, &fmtErr) && fmtErr.Hint != "" {
			return fmtErr.Hint
		}
		return "A resposta não é um CSV. Verifique se o link foi publicado como 'CSV'."
	case KindMissingColumn:
		errors.As(err, &colErr)
		return fmt.Sprintf("A coluna obrigatória '%s' não foi encontrada no seu CSV. Verifique o cabeçalho.", colErr.Expected)
	case "":
		return ""
	default:
		return "Ocorreu um erro inesperado ao carregar os dados."
	}
}

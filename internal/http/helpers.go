package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"painel/internal/core"
	"painel/internal/dashboard"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Hint  string `json:"hint,omitempty"`
	// Status is set when a refresh failed but previous data is still served.
	Status *dashboard.Status `json:"status,omitempty"`
}

const kindUnknownPage = "unknown_page"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps an error to the HTTP status reported to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch core.ErrorKind(err) {
	case core.KindConfiguration:
		return http.StatusServiceUnavailable
	case core.KindNetwork, core.KindFormat:
		return http.StatusBadGateway
	case core.KindMissingColumn:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func kindFor(err error) string {
	if errors.Is(err, dashboard.ErrUnknownPage) {
		return kindUnknownPage
	}
	return core.ErrorKind(err)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: err.Error(),
		Kind:  kindFor(err),
		Hint:  core.Hint(err),
	})
}

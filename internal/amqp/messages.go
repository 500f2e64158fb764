package amqp

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"painel/internal/core"
)

// Routing keys on the dashboard exchange.
const (
	// RoutingKeyRefreshed carries the outcome of every page refresh.
	RoutingKeyRefreshed = "dashboard.refreshed"
	// RoutingKeyRefresh carries requests to refresh a page.
	RoutingKeyRefresh = "dashboard.refresh"
)

// RefreshedMessage is published after every refresh, successful or not.
type RefreshedMessage struct {
	ID        string    `json:"id"`
	Page      string    `json:"page"`
	Records   int       `json:"records"`
	Success   bool      `json:"success"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"at"`
}

// NewRefreshedMessage converts a refresh event to its wire form.
func NewRefreshedMessage(ev core.RefreshEvent) *RefreshedMessage {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return &RefreshedMessage{
		ID:        ev.ID,
		Page:      ev.Page,
		Records:   ev.Records,
		Success:   ev.Success,
		ErrorKind: ev.ErrorKind,
		Error:     ev.Error,
		Timestamp: at.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshedMessageFromJSON decodes a published refresh outcome.
func RefreshedMessageFromJSON(data []byte) (*RefreshedMessage, error) {
	var msg RefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RefreshRequest asks the server to refresh one page.
type RefreshRequest struct {
	Page string `json:"page"`
}

var errNoPage = errors.New("refresh request without page")

// RefreshRequestFromJSON decodes a refresh request. A request without a page
// is invalid.
func RefreshRequestFromJSON(data []byte) (*RefreshRequest, error) {
	var req RefreshRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	req.Page = strings.TrimSpace(req.Page)
	if req.Page == "" {
		return nil, errNoPage
	}
	return &req, nil
}

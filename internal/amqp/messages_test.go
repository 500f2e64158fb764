package amqp

import (
	"encoding/json"
	"testing"
	"time"

	"painel/internal/core"
)

func TestNewRefreshedMessage(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	msg := NewRefreshedMessage(core.RefreshEvent{
		ID:        "0b5c",
		Page:      "faturamento",
		Records:   0,
		Success:   false,
		ErrorKind: core.KindFormat,
		Error:     "format: response body is HTML, not CSV",
		At:        at,
	})

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for key, want := range map[string]any{
		"id":         "0b5c",
		"page":       "faturamento",
		"success":    false,
		"error_kind": core.KindFormat,
		"at":         "2024-03-15T13:00:00Z",
	} {
		if fields[key] != want {
			t.Errorf("field %s = %v, want %v", key, fields[key], want)
		}
	}

	parsed, err := RefreshedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("RefreshedMessageFromJSON() error = %v", err)
	}
	if !parsed.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, at)
	}
}

func TestRefreshedMessage_OmitsEmptyError(t *testing.T) {
	body, err := NewRefreshedMessage(core.RefreshEvent{ID: "1", Page: "servicos", Success: true, Records: 4}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := fields["error"]; ok {
		t.Error("successful refresh should not carry an error field")
	}
	if fields["records"] != float64(4) {
		t.Errorf("records = %v, want 4", fields["records"])
	}
}

func TestRefreshRequestFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"valid", `{"page":"equipamentos"}`, "equipamentos", false},
		{"trimmed", `{"page":" servicos "}`, "servicos", false},
		{"empty page", `{"page":""}`, "", true},
		{"no page", `{}`, "", true},
		{"invalid json", `{"page":`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := RefreshRequestFromJSON([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RefreshRequestFromJSON(%s) should fail", tt.body)
				}
				return
			}
			if err != nil {
				t.Fatalf("RefreshRequestFromJSON(%s) error = %v", tt.body, err)
			}
			if req.Page != tt.want {
				t.Errorf("Page = %q, want %q", req.Page, tt.want)
			}
		})
	}
}

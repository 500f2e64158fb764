// Package google reads a page's sheet through the Google Sheets v4 API
// using an API key. The spreadsheet must be shared as "anyone with the
// link can view".
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"painel/internal/core"
	"painel/internal/ingest"
	ports "painel/internal/sheets"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetRange    string
	timeout       time.Duration
}

// Ensure interface conformance
var _ ports.TableReader = (*Client)(nil)

// NewService creates a Sheets service authenticated with apiKey over the
// pooled client. Extra options (such as an endpoint override) are appended.
func NewService(ctx context.Context, apiKey string, opts ...goption.ClientOption) (*gsheet.Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &core.ConfigurationError{Msg: "missing GOOGLE_API_KEY"}
	}
	base := ports.NewHTTPClient()
	httpClient := &http.Client{
		Transport: &transport.APIKey{Key: apiKey, Transport: base.Transport},
	}
	all := append([]goption.ClientOption{goption.WithHTTPClient(httpClient)}, opts...)
	svc, err := gsheet.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// New creates a reader for one range of a spreadsheet. Several pages may
// share svc.
func New(svc *gsheet.Service, spreadsheetID, sheetRange string, timeout time.Duration) *Client {
	if strings.TrimSpace(sheetRange) == "" {
		sheetRange = "A:Z"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(spreadsheetID),
		sheetRange:    sheetRange,
		timeout:       timeout,
	}
}

// Fetch reads the range and converts the values matrix to a table. The
// first row is the header.
func (c *Client) Fetch(ctx context.Context) (ingest.Table, error) {
	if c.spreadsheetID == "" {
		return ingest.Table{}, &core.ConfigurationError{Msg: "spreadsheet ID is not set"}
	}
	if c.svc == nil {
		return ingest.Table{}, errors.New("sheets service not initialized")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetRange).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return ingest.Table{}, &core.NetworkError{Status: apiErr.Code, Err: err}
		}
		return ingest.Table{}, &core.NetworkError{Err: err}
	}
	return toTable(resp.Values), nil
}

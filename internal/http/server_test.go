package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"painel/internal/cache"
	"painel/internal/core"
	"painel/internal/dashboard"
	"painel/internal/export"
	"painel/internal/sheets"
	"painel/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const contractsCSV = "Serviço ou Produto,Unidade,Fornecedor ou Cliente,Custo\n" +
	"Limpeza,Sede,Acme,\"R$ 1.000,00\"\n" +
	"Portaria,Filial,Beta,\"R$ 500,00\"\n"

type fixture struct {
	srv       *Server
	contracts *memory.Store
	board     *dashboard.Board
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	contracts := memory.New(contractsCSV)
	board := dashboard.NewBoard(map[core.Page]sheets.TableReader{
		core.Contracts: contracts,
		core.Equipment: memory.New("Tag do Equipamento,Status\nEQ-1,Ativo\n"),
		core.Billing:   memory.New("Fornecedor,# Valor Atual\nAcme,100\n"),
		core.Services:  memory.New("Unidade,Cliente\nSede,Acme\n"),
	}, dashboard.Options{})
	srv := NewServer(":0", board, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return fixture{srv: srv, contracts: contracts, board: board}
}

func (f fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.10:4321"
	f.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t, Options{})

	rr := f.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	require.NoError(t, f.board.RefreshAll(context.Background()))
	rr = f.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyReportsViewCache(t *testing.T) {
	views := cache.NewLRUCache[dashboard.View](8, 0)
	views.Get("contratos|0|")

	f := newFixture(t, Options{Views: views})
	rr := f.do(t, http.MethodGet, "/readyz")
	body := decode[map[string]any](t, rr)
	stats, ok := body["viewCache"].(map[string]any)
	require.True(t, ok, rr.Body.String())
	assert.Equal(t, 1.0, stats["misses"])
	assert.Equal(t, 0.0, stats["hits"])

	rr = newFixture(t, Options{}).do(t, http.MethodGet, "/readyz")
	assert.NotContains(t, decode[map[string]any](t, rr), "viewCache")
}

func TestMiddlewareHeaders(t *testing.T) {
	f := newFixture(t, Options{})
	rr := f.do(t, http.MethodGet, "/healthz")

	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestListPages(t *testing.T) {
	f := newFixture(t, Options{})
	rr := f.do(t, http.MethodGet, "/api/pages")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[struct {
		Pages []pageSummary `json:"pages"`
	}](t, rr)
	require.Len(t, body.Pages, 4)
	assert.Equal(t, "contratos", body.Pages[0].Page)
	assert.Equal(t, []string{"unidade", "fornecedor"}, body.Pages[0].FilterFields)
	assert.False(t, body.Pages[0].Status.Loaded)
}

func TestViewWithFilter(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.board.RefreshAll(context.Background()))

	rr := f.do(t, http.MethodGet, "/api/pages/Contratos?unidade=Sede&cor=azul")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	v := decode[dashboard.View](t, rr)
	assert.Equal(t, core.Contracts, v.Page)
	total, ok := v.KPI("custo_total")
	require.True(t, ok)
	assert.Equal(t, 1000.0, total.Value)
	assert.Equal(t, "R$ 1.000,00", total.Text)
	assert.Len(t, v.Table.Rows, 1)
	assert.Equal(t, map[string]string{"unidade": "Sede"}, map[string]string(v.Filter))
}

func TestUnknownPage(t *testing.T) {
	f := newFixture(t, Options{})
	for _, target := range []string{"/api/pages/estoque", "/api/pages/estoque/export.xlsx"} {
		rr := f.do(t, http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
		assert.Equal(t, kindUnknownPage, decode[errorResponse](t, rr).Kind, target)
	}
}

func TestRouting(t *testing.T) {
	f := newFixture(t, Options{})
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/nada").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodGet, "/api/pages/contratos/refresh").Code)
}

func TestRefreshFailureKeepsPreviousView(t *testing.T) {
	f := newFixture(t, Options{})

	rr := f.do(t, http.MethodPost, "/api/pages/contratos/refresh")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[dashboard.Status](t, rr).Records)

	f.contracts.Set("<!DOCTYPE html><html></html>")
	rr = f.do(t, http.MethodPost, "/api/pages/contratos/refresh")
	require.Equal(t, http.StatusBadGateway, rr.Code)
	failure := decode[errorResponse](t, rr)
	assert.Equal(t, core.KindFormat, failure.Kind)
	assert.NotEmpty(t, failure.Hint)
	require.NotNil(t, failure.Status)
	assert.Equal(t, 2, failure.Status.Records)

	v := decode[dashboard.View](t, f.do(t, http.MethodGet, "/api/pages/contratos"))
	total, _ := v.KPI("custo_total")
	assert.Equal(t, 1500.0, total.Value)
	assert.Equal(t, core.KindFormat, v.Status.ErrorKind)
}

func TestRefreshErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		set  func(*memory.Store)
		code int
		kind string
	}{
		{"missing column", func(s *memory.Store) { s.Set("Servico,Custo\nx,1\n") }, http.StatusUnprocessableEntity, core.KindMissingColumn},
		{"network", func(s *memory.Store) { s.Fail(&core.NetworkError{Status: 404}) }, http.StatusBadGateway, core.KindNetwork},
		{"configuration", func(s *memory.Store) { s.Fail(&core.ConfigurationError{Msg: "unset"}) }, http.StatusServiceUnavailable, core.KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			tt.set(f.contracts)
			rr := f.do(t, http.MethodPost, "/api/pages/contratos/refresh")
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.kind, decode[errorResponse](t, rr).Kind)
		})
	}
}

func TestRefreshRateLimited(t *testing.T) {
	f := newFixture(t, Options{RefreshPerMinute: 1})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/pages/contratos/refresh").Code)
	rr := f.do(t, http.MethodPost, "/api/pages/contratos/refresh")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decode[errorResponse](t, rr).Kind)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/pages/contratos").Code, "views are not limited")
}

func TestExport(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.board.RefreshAll(context.Background()))

	rr := f.do(t, http.MethodGet, "/api/pages/contratos/export.xlsx?fornecedor=Beta")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "painel-contratos.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Contratos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Portaria", rows[1][0])
}

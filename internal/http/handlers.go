package http

import (
	"bytes"
	"net/http"
	"time"

	"painel/internal/aggregate"
	"painel/internal/dashboard"
	"painel/internal/export"
	"painel/internal/log"
	"painel/internal/middleware/security"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports ready once every page attempted a refresh. Pages that
// failed still count: they serve their error status.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	if !s.board.Ready() {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	checks := make(map[string]string, len(s.board.Statuses()))
	for _, st := range s.board.Statuses() {
		switch {
		case st.Loaded && st.ErrorKind == "":
			checks[st.Page.String()] = "ok"
		case st.ErrorKind != "":
			checks[st.Page.String()] = st.ErrorKind
		default:
			checks[st.Page.String()] = "pending"
		}
	}
	body := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}
	if s.views != nil {
		body["viewCache"] = s.views.Stats()
	}
	writeJSON(w, code, body)
}

type pageSummary struct {
	Page         string           `json:"page"`
	Title        string           `json:"title"`
	FilterFields []string         `json:"filterFields"`
	Status       dashboard.Status `json:"status"`
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages := make([]pageSummary, 0, len(s.board.Pages()))
	for _, d := range s.board.Pages() {
		pages = append(pages, pageSummary{
			Page:         d.Page().String(),
			Title:        d.Title(),
			FilterFields: d.FilterFields(),
			Status:       d.Status(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

// page resolves the {page} URL parameter, writing a 404 when unknown.
func (s *Server) page(w http.ResponseWriter, r *http.Request) (dashboard.Dashboard, bool) {
	d, err := s.board.Get(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return d, true
}

// criteria reads one filter value per query parameter.
func criteria(r *http.Request) aggregate.Criteria {
	q := r.URL.Query()
	c := make(aggregate.Criteria, len(q))
	for k := range q {
		c[k] = q.Get(k)
	}
	return c
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	d, ok := s.page(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.View(criteria(r)))
}

// handleRefresh fetches the page again. On failure the previous records stay
// in place and the error body carries the page status.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d, ok := s.page(w, r)
	if !ok {
		return
	}
	st, err := d.Refresh(r.Context())
	if err != nil {
		fields := log.NewFields().WithPage(d.Page().String())
		s.access.LogError(r.Context(), "Manual refresh failed", err, kindFor(err), log.OpRefresh, fields)
		writeJSON(w, statusFor(err), errorResponse{
			Error:  err.Error(),
			Kind:   kindFor(err),
			Hint:   st.Hint,
			Status: &st,
		})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.page(w, r)
	if !ok {
		return
	}
	v := d.View(criteria(r))

	var buf bytes.Buffer
	if err := export.XLSX(&buf, v); err != nil {
		s.access.LogError(r.Context(), "Export failed", err, "internal_error", log.OpExport,
			log.NewFields().WithPage(d.Page().String()))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(v)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	log.FromContext(r.Context()).WithComponent(log.ComponentExport).DebugContext(r.Context(), "Export written",
		log.FieldPage, d.Page().String(),
		log.FieldRecords, len(v.Table.Rows),
		log.FieldOperation, log.OpExport)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, security.ClientIP(r),
		log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Error: "rate limit exceeded",
		Kind:  "rate_limited",
		Hint:  "Aguarde um minuto antes de atualizar novamente.",
	})
}

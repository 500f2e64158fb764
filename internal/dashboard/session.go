// Package dashboard owns the record collection of every page and turns it
// into views for the presentation layer.
//
// A Session holds one page's records. Refreshes replace the collection as a
// whole and are serialized per page; a failed refresh keeps the previous
// records and only updates the status.
package dashboard

import (
	"context"
	"net/url"
	"sync"
	"time"

	"painel/internal/aggregate"
	"painel/internal/cache"
	"painel/internal/core"
	"painel/internal/ingest"
	"painel/internal/log"
	"painel/internal/sheets"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Notifier receives the outcome of every refresh.
type Notifier interface {
	Notify(ctx context.Context, event core.RefreshEvent) error
}

// Options are shared by every session of a board.
type Options struct {
	Thresholds Thresholds
	// Views memoizes computed views; nil disables memoization.
	Views    cache.Cache[View]
	Notifier Notifier
	Logger   *log.Logger
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	o.Thresholds = o.Thresholds.withDefaults()
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Dashboard is the page-agnostic surface of a Session.
type Dashboard interface {
	Page() core.Page
	Title() string
	FilterFields() []string
	Refresh(ctx context.Context) (Status, error)
	View(criteria aggregate.Criteria) View
	Status() Status
}

// Session holds the current records of one page.
type Session[T any] struct {
	def    definition[T]
	source sheets.TableReader
	opts   Options
	logger *log.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	records []T
	status  Status
}

var _ Dashboard = (*Session[Contract])(nil)

func newSession[T any](def definition[T], source sheets.TableReader, opts Options) *Session[T] {
	opts = opts.withDefaults()
	return &Session[T]{
		def:    def,
		source: source,
		opts:   opts,
		logger: opts.Logger.WithComponent(log.ComponentDashboard).With(log.FieldPage, def.page.String()),
		status: Status{Page: def.page, Title: def.title},
	}
}

func (s *Session[T]) Page() core.Page { return s.def.page }

func (s *Session[T]) Title() string { return s.def.title }

// FilterFields lists the fields accepted as view criteria.
func (s *Session[T]) FilterFields() []string {
	out := make([]string, len(s.def.filters))
	for i, f := range s.def.filters {
		out[i] = f.Key
	}
	return out
}

// Status returns a copy of the current status.
func (s *Session[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Records returns the current collection. Callers must not modify it.
func (s *Session[T]) Records() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Refresh fetches and decodes the page's sheet and swaps the collection in.
// A refresh requested while another one is in flight waits for it and
// shares its outcome. Cancelling ctx stops the wait, not the fetch.
func (s *Session[T]) Refresh(ctx context.Context) (Status, error) {
	ch := s.group.DoChan("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Shared {
			s.logger.DebugContext(ctx, "Refresh shared with concurrent callers", log.FieldShared, true)
		}
		st, _ := res.Val.(Status)
		return st, res.Err
	case <-ctx.Done():
		return s.Status(), ctx.Err()
	}
}

func (s *Session[T]) refresh(ctx context.Context) (Status, error) {
	s.mu.Lock()
	s.status.Refreshing = true
	s.mu.Unlock()

	started := s.opts.Now()
	table, err := s.source.Fetch(ctx)
	var res ingest.Result[T]
	if err == nil {
		res, err = ingest.Decode(table, s.def.schema)
	}
	finished := s.opts.Now()

	s.mu.Lock()
	s.status.Refreshing = false
	s.status.LastAttempt = finished
	if err != nil {
		s.status.ErrorKind = core.ErrorKind(err)
		s.status.Error = err.Error()
		s.status.Hint = core.Hint(err)
		st := s.status
		s.mu.Unlock()

		fields := log.NewFields().WithOperation(log.OpRefresh).WithError(err, st.ErrorKind)
		s.logger.ErrorContext(ctx, "Refresh failed, keeping previous records", fields.ToSlice()...)
		s.notify(ctx, st, err)
		return st, err
	}

	s.records = res.Records
	s.status.Loaded = true
	s.status.Records = len(res.Records)
	s.status.Dropped = res.Dropped
	s.status.Generation++
	s.status.LastSuccess = finished
	s.status.ErrorKind, s.status.Error, s.status.Hint = "", "", ""
	st := s.status
	s.mu.Unlock()

	if s.opts.Views != nil {
		s.opts.Views.DeletePrefix(s.cachePrefix())
	}

	fields := log.NewFields().
		WithOperation(log.OpRefresh).
		WithRefresh(st.Records, st.Dropped, st.Generation)
	fields[log.FieldDuration] = finished.Sub(started).Milliseconds()
	s.logger.InfoContext(ctx, "Refresh completed", fields.ToSlice()...)
	s.notify(ctx, st, nil)
	return st, nil
}

func (s *Session[T]) notify(ctx context.Context, st Status, err error) {
	if s.opts.Notifier == nil {
		return
	}
	ev := core.RefreshEvent{
		ID:        uuid.NewString(),
		Page:      st.Page.String(),
		Records:   st.Records,
		Success:   err == nil,
		ErrorKind: core.ErrorKind(err),
		At:        st.LastAttempt,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if nerr := s.opts.Notifier.Notify(ctx, ev); nerr != nil {
		s.logger.WarnContext(ctx, "Refresh event not published",
			log.FieldEventID, ev.ID, log.FieldError, nerr.Error())
	}
}

// View computes the page view for criteria over the current records.
// Unknown criteria fields are ignored.
func (s *Session[T]) View(criteria aggregate.Criteria) View {
	s.mu.RLock()
	records, st := s.records, s.status
	s.mu.RUnlock()

	crit := s.normalize(criteria)
	key := s.cacheKey(st.Generation, crit)
	if s.opts.Views != nil {
		if v, ok := s.opts.Views.Get(key); ok {
			v.Status = st
			return v
		}
	}

	v := s.compute(records, crit, st)
	if s.opts.Views != nil {
		s.opts.Views.Set(key, v)
	}
	return v
}

func (s *Session[T]) normalize(criteria aggregate.Criteria) aggregate.Criteria {
	active := criteria.Active()
	out := make(aggregate.Criteria, len(active))
	for _, f := range s.def.filters {
		if v, ok := active[f.Key]; ok {
			out[f.Key] = v
		}
	}
	return out
}

func (s *Session[T]) cachePrefix() string {
	return s.def.page.String() + "|"
}

func (s *Session[T]) cacheKey(generation uint64, crit aggregate.Criteria) string {
	q := make(url.Values, len(crit))
	for k, v := range crit {
		q.Set(k, v)
	}
	return s.cachePrefix() + formatUint(generation) + "|" + q.Encode()
}

func (s *Session[T]) compute(records []T, crit aggregate.Criteria, st Status) View {
	now := s.opts.Now()
	filtered := aggregate.Filter(records, crit, s.def.field)
	if filtered == nil {
		filtered = []T{}
	}
	kpis, charts := s.def.summarize(filtered, now, s.opts.Thresholds)

	filters := make([]FilterOptions, 0, len(s.def.filters))
	for _, f := range s.def.filters {
		selected := crit[f.Key]
		if selected == "" {
			selected = "todos"
		}
		filters = append(filters, FilterOptions{
			Field:    f.Key,
			Label:    f.Label,
			Options:  aggregate.Distinct(records, func(r T) string { return s.def.field(r, f.Key) }),
			Selected: selected,
		})
	}

	table := Table{
		Columns: s.def.columns,
		Rows:    make([][]string, 0, len(filtered)),
		Values:  make([][]float64, 0, len(filtered)),
	}
	for _, r := range filtered {
		text, values := s.def.cells(r)
		table.Rows = append(table.Rows, text)
		table.Values = append(table.Values, values)
	}

	return View{
		Page:     s.def.page,
		Title:    s.def.title,
		Filter:   crit,
		KPIs:     kpis,
		Charts:   charts,
		Filters:  filters,
		Table:    table,
		Records:  filtered,
		Status:   st,
		Computed: now,
	}
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"painel/internal/core"
	"painel/internal/ingest"
	"painel/internal/log"
	"painel/internal/sheets"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownPage is returned for a page name outside core.Pages.
var ErrUnknownPage = errors.New("unknown page")

// Board is the set of dashboard pages served by one process.
type Board struct {
	order  []core.Page
	pages  map[core.Page]Dashboard
	logger *log.Logger
}

// NewBoard creates a session per page. Pages without a source report a
// configuration error on refresh.
func NewBoard(sources map[core.Page]sheets.TableReader, opts Options) *Board {
	opts = opts.withDefaults()
	b := &Board{
		order:  core.Pages(),
		pages:  make(map[core.Page]Dashboard, len(core.Pages())),
		logger: opts.Logger.WithComponent(log.ComponentDashboard),
	}
	source := func(p core.Page) sheets.TableReader {
		if src, ok := sources[p]; ok && src != nil {
			return src
		}
		return missingSource{page: p}
	}
	b.pages[core.Contracts] = newSession(contractsDefinition(), source(core.Contracts), opts)
	b.pages[core.Equipment] = newSession(equipmentDefinition(), source(core.Equipment), opts)
	b.pages[core.Billing] = newSession(billingDefinition(), source(core.Billing), opts)
	b.pages[core.Services] = newSession(servicesDefinition(), source(core.Services), opts)
	return b
}

// Get returns the page named name, in any case.
func (b *Board) Get(name string) (Dashboard, error) {
	p, ok := core.ParsePage(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}
	return b.pages[p], nil
}

// Pages returns every page in display order.
func (b *Board) Pages() []Dashboard {
	out := make([]Dashboard, 0, len(b.order))
	for _, p := range b.order {
		out = append(out, b.pages[p])
	}
	return out
}

// Statuses returns the status of every page in display order.
func (b *Board) Statuses() []Status {
	out := make([]Status, 0, len(b.order))
	for _, d := range b.Pages() {
		out = append(out, d.Status())
	}
	return out
}

// Ready reports whether every page finished at least one refresh, failed
// or not.
func (b *Board) Ready() bool {
	for _, st := range b.Statuses() {
		if !st.Attempted() {
			return false
		}
	}
	return true
}

// RefreshAll refreshes every page concurrently. Pages are independent: a
// failing page does not stop the others. The returned error joins the
// failures.
func (b *Board) RefreshAll(ctx context.Context) error {
	errs := make([]error, len(b.order))
	var g errgroup.Group
	for i, d := range b.Pages() {
		i, d := i, d
		g.Go(func() error {
			if _, err := d.Refresh(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", d.Page(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	b.logger.InfoContext(ctx, "All pages refreshed",
		log.FieldOperation, log.OpWarmUp,
		"pages", len(b.order),
		"failed", failed)
	return errors.Join(errs...)
}

// missingSource stands in for a page that has no configured source.
type missingSource struct {
	page core.Page
}

func (m missingSource) Fetch(context.Context) (ingest.Table, error) {
	return ingest.Table{}, &core.ConfigurationError{Msg: "no source configured for page " + m.page.String()}
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

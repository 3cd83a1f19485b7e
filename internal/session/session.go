// Package session owns the mutable state of one stack-building session: the
// catalog, the rate table, the selection, and the report details. Every UI
// (CLI, TUI, HTTP) drives a Session; nothing here is global.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/pipeline"
	"github.com/theirongolddev/stackcost/internal/remote"
	"github.com/theirongolddev/stackcost/internal/report"
	"github.com/theirongolddev/stackcost/internal/selection"
	"github.com/theirongolddev/stackcost/internal/snapshot"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options configures Open.
type Options struct {
	CatalogSource string
	Getter        remote.Getter // used for the catalog and rate fetches
	Offline       bool          // skip the rate fetch and use flat parity
	RatesURL      string        // overrides the catalog's rate URL template
	Currency      string        // initial display currency; empty means catalog default
	Cycle         model.Cycle
	Pricing       map[int]config.AppPricingOverride
	Log           *zap.SugaredLogger
}

// Details are the free-text fields carried by a snapshot.
type Details struct {
	PreparerName    string
	PreparerAddress string
	ClientName      string
	ClientAddress   string
	Notes           string
}

// Session is not safe for concurrent use.
type Session struct {
	cat      *catalog.Catalog
	rates    currency.RateTable
	sel      *selection.Set
	details  Details
	cycle    model.Cycle
	currency string
	log      *zap.SugaredLogger
}

// Open loads the catalog, then builds the rate table relative to the
// catalog's default currency. Only the catalog load can fail.
func Open(ctx context.Context, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cat, err := loadCatalog(ctx, opts, log)
	if err != nil {
		return nil, err
	}

	cur := cat.Currencies()
	var fetcher currency.Fetcher
	tmpl := opts.RatesURL
	if tmpl == "" {
		tmpl = cat.APIs().Currency
	}
	if !opts.Offline && tmpl != "" {
		fetcher = &currency.HTTPFetcher{Client: opts.Getter, URLTemplate: tmpl}
	}
	rt := currency.NewEngine(fetcher, cur.Supported, log).Build(ctx, cur.Default)

	s := New(cat, rt)
	s.log = log
	s.cycle = opts.Cycle
	if opts.Currency != "" {
		if err := s.SetCurrency(opts.Currency); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadCatalog loads opts.CatalogSource and applies opts.Pricing, the same way
// Open does. Rates are not fetched.
func LoadCatalog(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return loadCatalog(ctx, opts, log)
}

func loadCatalog(ctx context.Context, opts Options, log *zap.SugaredLogger) (*catalog.Catalog, error) {
	var loadOpts []catalog.LoadOption
	if opts.Getter != nil {
		loadOpts = append(loadOpts, catalog.WithGetter(opts.Getter))
	}
	cat, err := catalog.Load(ctx, opts.CatalogSource, loadOpts...)
	if err != nil {
		return nil, err
	}
	if len(opts.Pricing) > 0 {
		return ApplyPricing(cat, opts.Pricing, log)
	}
	return cat, nil
}

// New creates a session over an already loaded catalog and rate table.
func New(cat *catalog.Catalog, rt currency.RateTable) *Session {
	return &Session{
		cat:      cat,
		rates:    rt,
		sel:      selection.New(cat),
		currency: cat.Currencies().Default,
		log:      zap.NewNop().Sugar(),
	}
}

// ApplyPricing returns cat with the configured price overrides applied.
// Overrides for ids missing from the catalog are logged and skipped.
func ApplyPricing(cat *catalog.Catalog, overrides map[int]config.AppPricingOverride, log *zap.SugaredLogger) (*catalog.Catalog, error) {
	for id, o := range overrides {
		app, ok := cat.App(id)
		if !ok {
			log.Warnw("pricing override for unknown app", "app_id", id)
			continue
		}
		if o.Monthly != nil {
			app.Cost.Monthly = decimal.NewFromFloat(*o.Monthly)
		}
		if o.Yearly != nil {
			app.Cost.Yearly = decimal.NewFromFloat(*o.Yearly)
		}
		if c := strings.TrimSpace(o.Currency); c != "" {
			app.Cost.Currency = c
		}
		next, err := cat.WithApp(app)
		if err != nil {
			return nil, fmt.Errorf("applying pricing override %d: %w", id, err)
		}
		cat = next
	}
	return cat, nil
}

// Catalog returns the active catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Rates returns the session rate table.
func (s *Session) Rates() currency.RateTable { return s.rates }

// Selection exposes the selection set.
func (s *Session) Selection() *selection.Set { return s.sel }

// Apps returns the selected apps in order.
func (s *Session) Apps() []catalog.App { return s.sel.List() }

// Cycle returns the billing cycle.
func (s *Session) Cycle() model.Cycle { return s.cycle }

// SetCycle sets the billing cycle.
func (s *Session) SetCycle(c model.Cycle) { s.cycle = c }

// Currency returns the display currency.
func (s *Session) Currency() string { return s.currency }

// SetCurrency sets the display currency. It must be a supported currency.
func (s *Session) SetCurrency(code string) error {
	cur := s.cat.Currencies()
	if !cur.Supports(code) {
		return fmt.Errorf("currency %q is not supported (supported: %s)", code, strings.Join(cur.Supported, ", "))
	}
	s.currency = cur.Canonical(code)
	return nil
}

// NextCurrency advances to the next supported currency and returns it.
func (s *Session) NextCurrency() string {
	sup := s.cat.Currencies().Supported
	for i, c := range sup {
		if strings.EqualFold(c, s.currency) {
			s.currency = sup[(i+1)%len(sup)]
			return s.currency
		}
	}
	s.currency = sup[0]
	return s.currency
}

// Details returns the report text fields.
func (s *Session) Details() Details { return s.details }

// SetDetails replaces the report text fields.
func (s *Session) SetDetails(d Details) { s.details = d }

// Add selects an app by id.
func (s *Session) Add(id int) error {
	app, ok := s.cat.App(id)
	if !ok {
		return fmt.Errorf("no app with id %d", id)
	}
	s.sel.Add(app)
	return nil
}

// Remove deselects an app. Absent ids are ignored.
func (s *Session) Remove(id int) { s.sel.Remove(id) }

// Toggle adds id when absent and removes it when present.
func (s *Session) Toggle(id int) error {
	if s.sel.Contains(id) {
		s.sel.Remove(id)
		return nil
	}
	return s.Add(id)
}

// ApplyTemplate replaces the selection with a template's apps.
func (s *Session) ApplyTemplate(name string) error {
	t, ok := s.cat.Template(name)
	if !ok {
		return fmt.Errorf("no template named %q", name)
	}
	s.sel.Replace(t.AppIDs)
	return nil
}

// Quote prices the current selection.
func (s *Session) Quote() model.Quote {
	return pipeline.BuildQuote(s.cat, s.sel.List(), s.cycle, s.currency, s.rates)
}

// Snapshot captures the selection ids and details.
func (s *Session) Snapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		PreparerName:    s.details.PreparerName,
		PreparerAddress: s.details.PreparerAddress,
		ClientName:      s.details.ClientName,
		ClientAddress:   s.details.ClientAddress,
		Notes:           s.details.Notes,
		TechStackIDs:    s.sel.IDs(),
	}
}

// Restore decodes a save file and applies it. On error nothing changes.
func (s *Session) Restore(data []byte) error {
	snap, err := snapshot.Deserialize(data)
	if err != nil {
		return err
	}
	s.RestoreSnapshot(snap)
	return nil
}

// RestoreSnapshot applies snap: details verbatim, ids through the selection's
// reconciling Replace.
func (s *Session) RestoreSnapshot(snap snapshot.Snapshot) {
	s.details = Details{
		PreparerName:    snap.PreparerName,
		PreparerAddress: snap.PreparerAddress,
		ClientName:      snap.ClientName,
		ClientAddress:   snap.ClientAddress,
		Notes:           snap.Notes,
	}
	s.sel.Replace(snap.TechStackIDs)
}

// ShareLink encodes the selection as a query string.
func (s *Session) ShareLink() (string, error) {
	return snapshot.EncodeLink(s.sel.IDs())
}

// OpenLink replaces the selection with the ids in a share link and returns
// how many were kept. Details are left alone.
func (s *Session) OpenLink(link string) int {
	s.sel.Replace(snapshot.DecodeLink(link))
	return s.sel.Len()
}

// ReportContext combines details, cycle, and currency for report generation.
func (s *Session) ReportContext() report.Context {
	return report.Context{
		PreparerName:    s.details.PreparerName,
		PreparerAddress: s.details.PreparerAddress,
		ClientName:      s.details.ClientName,
		ClientAddress:   s.details.ClientAddress,
		Notes:           s.details.Notes,
		Cycle:           s.cycle,
		Currency:        s.currency,
	}
}

// ReplaceCatalog swaps in an edited catalog and reconciles the selection.
// An unsupported display currency falls back to the new default.
func (s *Session) ReplaceCatalog(cat *catalog.Catalog) {
	s.cat = cat
	s.sel.Rebind(cat)
	if !cat.Currencies().Supports(s.currency) {
		s.log.Infow("display currency no longer supported", "currency", s.currency, "default", cat.Currencies().Default)
		s.currency = cat.Currencies().Default
	}
}

package report

import (
	"context"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/pipeline"
	"github.com/theirongolddev/stackcost/internal/snapshot"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Context carries the report's identity fields and pricing choices.
type Context struct {
	PreparerName    string
	PreparerAddress string
	ClientName      string
	ClientAddress   string
	Notes           string
	Cycle           model.Cycle
	Currency        string

	// Logo holds raw image bytes; LogoPath is read when Logo is empty.
	Logo     []byte
	LogoPath string
}

// Generator builds Documents. Chart may be nil, which omits the chart.
type Generator struct {
	Chart ChartSource
	Log   *zap.SugaredLogger
	Now   func() time.Time
}

// NewGenerator returns a Generator using chart and log.
func NewGenerator(chart ChartSource, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{Chart: chart, Log: log, Now: time.Now}
}

// Generate prices apps and assembles the report. It does not fail: logo and
// chart problems are logged and the affected region is left out.
func (g *Generator) Generate(ctx context.Context, apps []catalog.App, rc Context, cat *catalog.Catalog, rt currency.RateTable) *Document {
	log := g.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	cur := rc.Currency
	if cur == "" {
		cur = cat.Currencies().Default
	}
	q := pipeline.BuildQuote(cat, apps, rc.Cycle, cur, rt)

	doc := &Document{
		id:       uuid.New(),
		filename: snapshot.Filename(rc.ClientName, ""),
		header: Header{
			Title:           reportTitle(cat),
			PreparerName:    rc.PreparerName,
			PreparerAddress: rc.PreparerAddress,
			ClientName:      rc.ClientName,
			ClientAddress:   rc.ClientAddress,
			GeneratedAt:     now(),
			Currency:        strings.ToUpper(cur),
			Cycle:           rc.Cycle,
		},
		rows: make([]Row, 0, len(q.Lines)),
		totals: Totals{
			Total:         q.Total,
			Subtotals:     q.Subtotals,
			Uncategorized: q.Uncategorized,
			Degraded:      q.Degraded,
		},
		notes: strings.TrimSpace(rc.Notes),
	}
	for _, l := range q.Lines {
		doc.rows = append(doc.rows, Row{
			Category:    l.Category,
			Name:        l.Name,
			Description: l.Description,
			CycleLabel:  rc.Cycle.Label(),
			Cost:        l.Cost,
		})
	}

	// Logo and chart are independent; neither returns an error to the group.
	var eg errgroup.Group
	if len(rc.Logo) > 0 || rc.LogoPath != "" {
		eg.Go(func() error {
			logo, err := resolveLogo(rc)
			if err != nil {
				log.Warnw("logo omitted from report", "path", rc.LogoPath, "error", err)
				return nil
			}
			doc.header.Logo = logo
			return nil
		})
	}
	if g.Chart != nil && len(q.Subtotals) > 0 {
		eg.Go(func() error {
			labels, values := chartSeries(q.Subtotals)
			img, err := g.Chart.Render(ctx, labels, values)
			if err != nil {
				log.Warnw("chart omitted from report", "error", err)
				return nil
			}
			doc.chart = img
			return nil
		})
	}
	_ = eg.Wait()

	return doc
}

func reportTitle(cat *catalog.Catalog) string {
	ui := cat.UIText()
	switch {
	case ui.HeaderTitle != "":
		return ui.HeaderTitle
	case ui.PageTitle != "":
		return ui.PageTitle
	}
	return "Tech Stack"
}

func chartSeries(subs []model.CategoryCost) ([]string, []float64) {
	labels := make([]string, len(subs))
	values := make([]float64, len(subs))
	for i, s := range subs {
		labels[i] = s.Name
		values[i] = s.Cost.Round(2).InexactFloat64()
	}
	return labels, values
}

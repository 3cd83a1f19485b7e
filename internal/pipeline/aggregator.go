// Package pipeline prices a selection: per-app line items, per-category
// subtotals, and the grand total, all in one currency and one billing cycle.
//
// Nothing here rounds. Amounts are rounded only when formatted for display.
package pipeline

import (
	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/model"

	"github.com/shopspring/decimal"
)

// CategoryIndex resolves category names and fixes their display order.
// *catalog.Catalog implements it.
type CategoryIndex interface {
	Categories() []catalog.Category
	Category(name string) (catalog.Category, bool)
}

// LineItem is the app's cost for cycle converted into target.
func LineItem(app catalog.App, cycle model.Cycle, target string, rt currency.RateTable) decimal.Decimal {
	return currency.Convert(app.Cost.For(cycle), app.Cost.Currency, target, rt)
}

// CategorySubtotals groups line items by category, in catalog category order.
// Categories with no selected apps are omitted. Apps whose category does not
// resolve contribute to no bucket.
func CategorySubtotals(apps []catalog.App, cycle model.Cycle, target string, rt currency.RateTable, idx CategoryIndex) []model.CategoryCost {
	buckets := make(map[string]*model.CategoryCost)
	for _, app := range apps {
		if _, ok := idx.Category(app.Category); !ok {
			continue
		}
		cc, ok := buckets[app.Category]
		if !ok {
			cc = &model.CategoryCost{Name: app.Category}
			buckets[app.Category] = cc
		}
		cc.Apps++
		cc.Cost = cc.Cost.Add(LineItem(app, cycle, target, rt))
	}

	out := make([]model.CategoryCost, 0, len(buckets))
	for _, cat := range idx.Categories() {
		if cc, ok := buckets[cat.Name]; ok {
			out = append(out, *cc)
		}
	}
	return out
}

// SubtotalMap returns CategorySubtotals keyed by category name.
func SubtotalMap(apps []catalog.App, cycle model.Cycle, target string, rt currency.RateTable, idx CategoryIndex) map[string]decimal.Decimal {
	subs := CategorySubtotals(apps, cycle, target, rt, idx)
	m := make(map[string]decimal.Decimal, len(subs))
	for _, s := range subs {
		m[s.Name] = s.Cost
	}
	return m
}

// GrandTotal sums every line item, independent of category grouping.
func GrandTotal(apps []catalog.App, cycle model.Cycle, target string, rt currency.RateTable) decimal.Decimal {
	total := decimal.Zero
	for _, app := range apps {
		total = total.Add(LineItem(app, cycle, target, rt))
	}
	return total
}

// BuildQuote prices apps in order and assembles the full quote.
func BuildQuote(idx CategoryIndex, apps []catalog.App, cycle model.Cycle, target string, rt currency.RateTable) model.Quote {
	q := model.Quote{
		Currency:  target,
		Cycle:     cycle,
		Lines:     make([]model.LineCost, 0, len(apps)),
		Subtotals: CategorySubtotals(apps, cycle, target, rt, idx),
		Total:     GrandTotal(apps, cycle, target, rt),
		Degraded:  rt.Degraded,
	}
	for _, app := range apps {
		_, known := idx.Category(app.Category)
		line := model.LineCost{
			AppID:          app.ID,
			Name:           app.Name,
			Description:    app.Description,
			Category:       app.Category,
			CategoryKnown:  known,
			Icon:           app.Icon,
			Source:         app.Cost.For(cycle),
			SourceCurrency: app.Cost.Currency,
			Cost:           LineItem(app, cycle, target, rt),
		}
		if !known {
			q.Uncategorized = q.Uncategorized.Add(line.Cost)
		}
		q.Lines = append(q.Lines, line)
	}
	return q
}

// Share returns part/total as a fraction in [0,1]; zero when total is not positive.
func Share(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	f, _ := part.Div(total).Float64()
	return f
}

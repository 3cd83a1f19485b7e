package model

import "github.com/shopspring/decimal"

// LineCost is one selected app priced in the quote currency.
type LineCost struct {
	AppID          int
	Name           string
	Description    string
	Category       string
	CategoryKnown  bool // false when Category does not resolve in the catalog
	Icon           string
	Source         decimal.Decimal // cost in the app's own currency
	SourceCurrency string
	Cost           decimal.Decimal // converted, unrounded
}

// CategoryCost is a per-category subtotal.
type CategoryCost struct {
	Name string
	Apps int
	Cost decimal.Decimal
}

// Quote is the full priced view of a selection for one currency and cycle.
type Quote struct {
	Currency  string
	Cycle     Cycle
	Lines     []LineCost
	Subtotals []CategoryCost

	// Uncategorized is the sum of lines whose category does not resolve.
	// It is included in Total but in no subtotal.
	Uncategorized decimal.Decimal
	Total         decimal.Decimal

	// Degraded is set when the rate table fell back to flat parity.
	Degraded bool
}

// Empty reports whether the quote has no line items.
func (q Quote) Empty() bool {
	return len(q.Lines) == 0
}

// Package catalog holds the read-only product catalog: categories, apps,
// templates, currencies, and the UI/service configuration that ships with them.
package catalog

import (
	"slices"
	"strings"

	"github.com/theirongolddev/stackcost/internal/model"

	"github.com/shopspring/decimal"
)

// Cost is an app's list price in its own currency.
type Cost struct {
	Monthly  decimal.Decimal
	Yearly   decimal.Decimal
	Currency string
}

// For returns the price for the given billing cycle.
func (c Cost) For(cycle model.Cycle) decimal.Decimal {
	if cycle == model.Yearly {
		return c.Yearly
	}
	return c.Monthly
}

// App is one priced catalog item.
type App struct {
	ID          int
	Name        string
	Description string
	Category    string // soft reference to Category.Name
	Icon        string
	Cost        Cost
}

// Category groups apps.
type Category struct {
	Name        string
	Description string
	Icon        string
}

// Template is a named preset selection.
type Template struct {
	Name   string
	AppIDs []int
}

func (t Template) clone() Template {
	t.AppIDs = slices.Clone(t.AppIDs)
	return t
}

// CurrencyConfig lists the currencies a session may price in.
type CurrencyConfig struct {
	Supported []string
	Default   string
}

// Supports reports whether code is a supported currency (case-insensitive).
func (c CurrencyConfig) Supports(code string) bool {
	for _, s := range c.Supported {
		if strings.EqualFold(s, code) {
			return true
		}
	}
	return false
}

// Canonical returns the supported spelling of code, or code upper-cased when unsupported.
func (c CurrencyConfig) Canonical(code string) string {
	for _, s := range c.Supported {
		if strings.EqualFold(s, code) {
			return s
		}
	}
	return strings.ToUpper(code)
}

func (c CurrencyConfig) clone() CurrencyConfig {
	c.Supported = slices.Clone(c.Supported)
	return c
}

// APIs holds the external service URL templates.
type APIs struct {
	Currency     string // rate source, {currency} is the lowercase base
	IconSearch   string // {query}
	IconRetrieve string // {icon}
	PieChart     string // {labels} and {values}, URL-escaped JSON arrays
}

// AI holds the summarizer settings. They are carried through edits but not used.
type AI struct {
	Model  string
	Prompt string
}

// ThemeColors is one color scheme of a Theme.
type ThemeColors struct {
	Primary   string
	Secondary string
}

// Theme is a named brand palette.
type Theme struct {
	Name       string
	FontFamily string
	Light      ThemeColors
	Dark       ThemeColors
}

// UIText holds the page copy.
type UIText struct {
	PageTitle        string
	HeaderTitle      string
	HeaderSubtitle   string
	StartButtonText  string
	ExportButtonText string
}

package catalog

import (
	"slices"
	"strings"
)

// Catalog is immutable after construction. All accessors return copies; edits
// go through the With*/Without* functions, which return a new Catalog.
type Catalog struct {
	source     string
	ui         UIText
	apis       APIs
	ai         AI
	currencies CurrencyConfig
	themes     []Theme
	templates  []Template
	categories []Category
	apps       []App

	appIdx map[int]int
	catIdx map[string]int
}

// index validates cross-entity structure and builds lookup tables.
func (c *Catalog) index() *LoadError {
	if len(c.currencies.Supported) == 0 {
		return malformed("config.currencies.supported is empty")
	}
	if !c.currencies.Supports(c.currencies.Default) {
		return malformed("default currency %q is not in supported %v", c.currencies.Default, c.currencies.Supported)
	}

	c.catIdx = make(map[string]int, len(c.categories))
	for i, cat := range c.categories {
		if strings.TrimSpace(cat.Name) == "" {
			return malformed("categories[%d]: name is empty", i)
		}
		if _, dup := c.catIdx[cat.Name]; dup {
			return malformed("duplicate category name %q", cat.Name)
		}
		c.catIdx[cat.Name] = i
	}

	c.appIdx = make(map[int]int, len(c.apps))
	for i, app := range c.apps {
		if _, dup := c.appIdx[app.ID]; dup {
			return malformed("duplicate app id %d", app.ID)
		}
		if app.Cost.Monthly.IsNegative() || app.Cost.Yearly.IsNegative() {
			return malformed("app %d: negative cost", app.ID)
		}
		c.appIdx[app.ID] = i
	}

	return nil
}

// Source returns the location the catalog was loaded from, if any.
func (c *Catalog) Source() string { return c.source }

// Apps returns all apps in catalog order.
func (c *Catalog) Apps() []App { return slices.Clone(c.apps) }

// App looks up an app by id.
func (c *Catalog) App(id int) (App, bool) {
	i, ok := c.appIdx[id]
	if !ok {
		return App{}, false
	}
	return c.apps[i], true
}

// AppsInCategory returns the apps whose category is name, in catalog order.
func (c *Catalog) AppsInCategory(name string) []App {
	var out []App
	for _, a := range c.apps {
		if a.Category == name {
			out = append(out, a)
		}
	}
	return out
}

// Resolve maps ids to apps, dropping ids that are not in the catalog. Order is kept.
func (c *Catalog) Resolve(ids []int) []App {
	out := make([]App, 0, len(ids))
	for _, id := range ids {
		if a, ok := c.App(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// NextID returns an id one greater than the largest app id.
func (c *Catalog) NextID() int {
	maxID := 0
	for _, a := range c.apps {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID + 1
}

// Categories returns all categories in catalog order.
func (c *Catalog) Categories() []Category { return slices.Clone(c.categories) }

// Category looks up a category by exact name.
func (c *Catalog) Category(name string) (Category, bool) {
	i, ok := c.catIdx[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Templates returns all templates in catalog order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

// Template looks up a template by name (case-insensitive). With duplicate
// names the first in catalog order wins.
func (c *Catalog) Template(name string) (Template, bool) {
	for _, t := range c.templates {
		if strings.EqualFold(t.Name, name) {
			return t.clone(), true
		}
	}
	return Template{}, false
}

// Currencies returns the currency configuration.
func (c *Catalog) Currencies() CurrencyConfig { return c.currencies.clone() }

// APIs returns the service URL templates.
func (c *Catalog) APIs() APIs { return c.apis }

// AI returns the summarizer settings.
func (c *Catalog) AI() AI { return c.ai }

// Themes returns all themes.
func (c *Catalog) Themes() []Theme { return slices.Clone(c.themes) }

// Theme looks up a theme by name (case-insensitive).
func (c *Catalog) Theme(name string) (Theme, bool) {
	for _, t := range c.themes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

// UIText returns the page copy.
func (c *Catalog) UIText() UIText { return c.ui }

// clone returns a deep copy without indexes; callers re-index.
func (c *Catalog) clone() *Catalog {
	out := &Catalog{
		source:     c.source,
		ui:         c.ui,
		apis:       c.apis,
		ai:         c.ai,
		currencies: c.currencies.clone(),
		themes:     slices.Clone(c.themes),
		categories: slices.Clone(c.categories),
		apps:       slices.Clone(c.apps),
		templates:  make([]Template, len(c.templates)),
	}
	for i, t := range c.templates {
		out.templates[i] = t.clone()
	}
	return out
}

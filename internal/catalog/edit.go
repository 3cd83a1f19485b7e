package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Edits never modify the receiver. Each returns a new, re-validated Catalog;
// callers rebuild anything derived from the old one.

// DefaultIcon is given to new apps that have no icon.
const DefaultIcon = "mdi:help-box"

// WithApp adds or replaces an app. An ID of 0 assigns NextID and, when
// Icon is empty, DefaultIcon.
func (c *Catalog) WithApp(app App) (*Catalog, error) {
	if strings.TrimSpace(app.Name) == "" {
		return nil, fmt.Errorf("catalog: app name is required")
	}
	if strings.TrimSpace(app.Cost.Currency) == "" {
		return nil, fmt.Errorf("catalog: app %q: cost currency is required", app.Name)
	}
	out := c.clone()
	if app.ID == 0 {
		app.ID = c.NextID()
		if app.Icon == "" {
			app.Icon = DefaultIcon
		}
	}
	if i, ok := c.appIdx[app.ID]; ok {
		out.apps[i] = app
	} else {
		out.apps = append(out.apps, app)
	}
	return out.reindex()
}

// WithoutApp removes an app and drops it from every template.
func (c *Catalog) WithoutApp(id int) (*Catalog, error) {
	if _, ok := c.appIdx[id]; !ok {
		return nil, fmt.Errorf("catalog: no app with id %d", id)
	}
	out := c.clone()
	out.apps = slices.DeleteFunc(out.apps, func(a App) bool { return a.ID == id })
	for i := range out.templates {
		out.templates[i].AppIDs = slices.DeleteFunc(out.templates[i].AppIDs, func(v int) bool { return v == id })
	}
	return out.reindex()
}

// WithCategory adds or replaces a category by name.
func (c *Catalog) WithCategory(cat Category) (*Catalog, error) {
	if strings.TrimSpace(cat.Name) == "" {
		return nil, fmt.Errorf("catalog: category name is required")
	}
	out := c.clone()
	if i, ok := c.catIdx[cat.Name]; ok {
		out.categories[i] = cat
	} else {
		out.categories = append(out.categories, cat)
	}
	return out.reindex()
}

// WithoutCategory removes a category. Apps referencing it keep the now
// dangling name and are treated as uncategorized.
func (c *Catalog) WithoutCategory(name string) (*Catalog, error) {
	if _, ok := c.catIdx[name]; !ok {
		return nil, fmt.Errorf("catalog: no category %q", name)
	}
	out := c.clone()
	out.categories = slices.DeleteFunc(out.categories, func(cat Category) bool { return cat.Name == name })
	return out.reindex()
}

// WithTemplate adds or replaces a template by name.
func (c *Catalog) WithTemplate(t Template) (*Catalog, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("catalog: template name is required")
	}
	out := c.clone()
	t = t.clone()
	idx := slices.IndexFunc(out.templates, func(x Template) bool { return strings.EqualFold(x.Name, t.Name) })
	if idx >= 0 {
		out.templates[idx] = t
	} else {
		out.templates = append(out.templates, t)
	}
	return out.reindex()
}

// WithoutTemplate removes a template.
func (c *Catalog) WithoutTemplate(name string) (*Catalog, error) {
	if _, ok := c.Template(name); !ok {
		return nil, fmt.Errorf("catalog: no template %q", name)
	}
	out := c.clone()
	out.templates = slices.DeleteFunc(out.templates, func(t Template) bool { return strings.EqualFold(t.Name, name) })
	return out.reindex()
}

// WithTheme adds or replaces a theme by name.
func (c *Catalog) WithTheme(t Theme) (*Catalog, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("catalog: theme name is required")
	}
	out := c.clone()
	idx := slices.IndexFunc(out.themes, func(x Theme) bool { return strings.EqualFold(x.Name, t.Name) })
	if idx >= 0 {
		out.themes[idx] = t
	} else {
		out.themes = append(out.themes, t)
	}
	return out.reindex()
}

// WithoutTheme removes a theme.
func (c *Catalog) WithoutTheme(name string) (*Catalog, error) {
	if _, ok := c.Theme(name); !ok {
		return nil, fmt.Errorf("catalog: no theme %q", name)
	}
	out := c.clone()
	out.themes = slices.DeleteFunc(out.themes, func(t Theme) bool { return strings.EqualFold(t.Name, name) })
	return out.reindex()
}

// WithCurrencies replaces the currency configuration.
func (c *Catalog) WithCurrencies(cc CurrencyConfig) (*Catalog, error) {
	out := c.clone()
	out.currencies = CurrencyConfig{Supported: trimAll(cc.Supported), Default: strings.TrimSpace(cc.Default)}
	return out.reindex()
}

func (c *Catalog) reindex() (*Catalog, error) {
	if lerr := c.index(); lerr != nil {
		return nil, lerr
	}
	return c, nil
}

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes the catalog as an indented catalog document.
func (c *Catalog) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c.toDocument()); err != nil {
		return fmt.Errorf("catalog: encoding: %w", err)
	}
	return nil
}

// WriteFile encodes the catalog to path via a temp file and rename.
func (c *Catalog) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("catalog: creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := c.Encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("catalog: closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("catalog: replacing %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) toDocument() document {
	cfg := &configDoc{
		PageTitle:        c.ui.PageTitle,
		HeaderTitle:      c.ui.HeaderTitle,
		HeaderSubtitle:   c.ui.HeaderSubtitle,
		StartButtonText:  c.ui.StartButtonText,
		ExportButtonText: c.ui.ExportButtonText,
		APIs:             apisDoc(c.apis),
		AI:               aiDoc(c.ai),
		Currencies: &currenciesDoc{
			Supported: append([]string(nil), c.currencies.Supported...),
			Default:   c.currencies.Default,
		},
		Themes:    []themeDoc{},
		Templates: []templateDoc{},
	}
	for _, t := range c.themes {
		cfg.Themes = append(cfg.Themes, themeDoc{
			Name:       t.Name,
			FontFamily: t.FontFamily,
			Light:      themeColorsDoc(t.Light),
			Dark:       themeColorsDoc(t.Dark),
		})
	}
	for _, t := range c.templates {
		ids := make([]flexID, len(t.AppIDs))
		for i, id := range t.AppIDs {
			ids[i] = flexID(id)
		}
		cfg.Templates = append(cfg.Templates, templateDoc{Name: t.Name, AppIDs: ids})
	}

	doc := document{
		Config:     cfg,
		Categories: []categoryDoc{},
		Apps:       []appDoc{},
	}
	for _, cat := range c.categories {
		doc.Categories = append(doc.Categories, categoryDoc(cat))
	}
	for _, a := range c.apps {
		id := flexID(a.ID)
		monthly := json.Number(a.Cost.Monthly.String())
		yearly := json.Number(a.Cost.Yearly.String())
		doc.Apps = append(doc.Apps, appDoc{
			ID:          &id,
			Name:        a.Name,
			Description: a.Description,
			Category:    a.Category,
			Icon:        a.Icon,
			Cost: &costDoc{
				Monthly:  &monthly,
				Yearly:   &yearly,
				Currency: a.Cost.Currency,
			},
		})
	}
	return doc
}

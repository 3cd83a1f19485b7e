package report

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"regexp"

	"github.com/theirongolddev/stackcost/internal/model"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HTMLStyle sets the accent color and font of the HTML export.
type HTMLStyle struct {
	Accent string
	Font   string
}

var defaultStyle = HTMLStyle{Accent: "#205ea6", Font: "system-ui, sans-serif"}

// Style values are written into a <style> block unescaped, so only plain
// colors and font lists are accepted.
var (
	accentPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|(rgb|rgba|hsl|hsla)\([0-9.,% ]+\))$`)
	fontPattern   = regexp.MustCompile(`^[a-zA-Z0-9 ,_'"-]{1,120}$`)
)

// sanitized replaces any value that is not a plain color or font list with
// the default.
func (s HTMLStyle) sanitized() HTMLStyle {
	if !accentPattern.MatchString(s.Accent) {
		s.Accent = defaultStyle.Accent
	}
	if !fontPattern.MatchString(s.Font) {
		s.Font = defaultStyle.Font
	}
	return s
}

// WriteHTML renders doc as a self-contained HTML page. Images are inlined
// as data URIs; all text is escaped.
func WriteHTML(w io.Writer, doc *Document) error {
	return WriteStyledHTML(w, doc, defaultStyle)
}

// WriteStyledHTML is WriteHTML with an explicit style.
func WriteStyledHTML(w io.Writer, doc *Document, style HTMLStyle) error {
	style = style.sanitized()
	h := doc.Header()

	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return model.FormatMoney(d, h.Currency) },
	}
	t, err := template.New("report.html").Funcs(funcs).ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return fmt.Errorf("report: parsing template: %w", err)
	}

	data := struct {
		Header   Header
		Rows     []Row
		Totals   Totals
		Notes    string
		LogoURI  template.URL
		ChartURI template.URL
		Accent   template.CSS
		Font     template.CSS
	}{
		Header:   h,
		Rows:     doc.Rows(),
		Totals:   doc.Totals(),
		Notes:    doc.Notes(),
		LogoURI:  dataURI(h.Logo),
		ChartURI: dataURI(doc.Chart()),
		Accent:   template.CSS(style.Accent), //nolint:gosec // checked against accentPattern
		Font:     template.CSS(style.Font),   //nolint:gosec // checked against fontPattern
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("report: rendering html: %w", err)
	}
	return nil
}

func dataURI(b []byte) template.URL {
	if len(b) == 0 {
		return ""
	}
	mime := http.DetectContentType(b)
	//nolint:gosec // base64 payload of bytes we produced or validated as an image
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b))
}

package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testCatalog = `{
  "config": {
    "headerTitle": "Tech Stack Estimate",
    "currencies": {"supported": ["USD", "EUR"], "default": "USD"}
  },
  "categories": [{"name": "Productivity"}, {"name": "Design"}],
  "apps": [
    {"id": 1, "name": "Docs", "description": "Shared docs", "category": "Productivity", "cost": {"monthly": 10, "yearly": 100, "currency": "USD"}},
    {"id": 2, "name": "Draw", "description": "Vector art", "category": "Design", "cost": {"monthly": 20, "yearly": 200, "currency": "EUR"}}
  ]
}`

func testSetup(t *testing.T) (*catalog.Catalog, currency.RateTable) {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rt := currency.RateTable{Base: "usd", Rates: map[string]decimal.Decimal{
		"usd": decimal.NewFromInt(1),
		"eur": decimal.RequireFromString("0.9"),
	}}
	return cat, rt
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type stubChart struct {
	img    []byte
	err    error
	labels []string
	values []float64
}

func (s *stubChart) Render(_ context.Context, labels []string, values []float64) ([]byte, error) {
	s.labels, s.values = labels, values
	return s.img, s.err
}

func fixedGenerator(chart ChartSource, log *zap.SugaredLogger) *Generator {
	g := NewGenerator(chart, log)
	g.Now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return g
}

func TestGenerateSections(t *testing.T) {
	cat, rt := testSetup(t)
	chart := &stubChart{img: pngBytes(t, 4, 4)}
	rc := Context{ClientName: "Acme Corp", Currency: "EUR", Cycle: model.Monthly, Notes: "Renews in May"}

	doc := fixedGenerator(chart, nil).Generate(context.Background(), cat.Resolve([]int{2, 1}), rc, cat, rt)

	want := []SectionKind{SectionHeader, SectionLineItems, SectionTotals, SectionChart, SectionNotes}
	if got := doc.Sections(); !slices.Equal(got, want) {
		t.Fatalf("Sections = %v, want %v", got, want)
	}
	rows := doc.Rows()
	if len(rows) != 2 || rows[0].Name != "Draw" || rows[1].Name != "Docs" {
		t.Fatalf("rows out of selection order: %+v", rows)
	}
	if rows[0].CycleLabel != "Monthly" {
		t.Errorf("cycle label = %q", rows[0].CycleLabel)
	}
	if got := doc.Totals().Total.StringFixed(2); got != "29.00" {
		t.Errorf("total = %s, want 29.00", got)
	}
	if !slices.Equal(chart.labels, []string{"Productivity", "Design"}) || chart.values[0] != 9 {
		t.Errorf("chart series = %v %v", chart.labels, chart.values)
	}
	h := doc.Header()
	if h.Title != "Tech Stack Estimate" || h.Currency != "EUR" {
		t.Errorf("header = %+v", h)
	}
	if doc.Filename("html") != "Acme_Corp_Tech_Stack.html" {
		t.Errorf("Filename = %q", doc.Filename("html"))
	}
	if doc.ID() == "" {
		t.Error("empty document id")
	}
}

func TestChartFailureKeepsTotals(t *testing.T) {
	cat, rt := testSetup(t)
	apps := cat.Resolve([]int{1, 2})
	rc := Context{Currency: "EUR", Cycle: model.Yearly}

	ok := fixedGenerator(&stubChart{img: pngBytes(t, 4, 4)}, nil).Generate(context.Background(), apps, rc, cat, rt)

	core, logs := observer.New(zapcore.WarnLevel)
	failed := fixedGenerator(&stubChart{err: &ChartError{Err: errors.New("503")}}, zap.New(core).Sugar()).
		Generate(context.Background(), apps, rc, cat, rt)

	if len(failed.Chart()) != 0 {
		t.Fatal("chart should be omitted")
	}
	want := []SectionKind{SectionHeader, SectionLineItems, SectionTotals}
	if got := failed.Sections(); !slices.Equal(got, want) {
		t.Errorf("Sections = %v, want %v", got, want)
	}
	if !sameRows(ok.Rows(), failed.Rows()) {
		t.Error("line items differ from the successful-chart case")
	}
	if !ok.Totals().Total.Equal(failed.Totals().Total) || len(ok.Totals().Subtotals) != len(failed.Totals().Subtotals) {
		t.Error("totals differ from the successful-chart case")
	}
	if logs.Len() != 1 {
		t.Errorf("warn entries = %d, want 1", logs.Len())
	}
}

func sameRows(a, b []Row) bool {
	return slices.EqualFunc(a, b, func(x, y Row) bool {
		return x.Category == y.Category && x.Name == y.Name && x.Description == y.Description &&
			x.CycleLabel == y.CycleLabel && x.Cost.Equal(y.Cost)
	})
}

func TestNoChartWithoutSubtotals(t *testing.T) {
	cat, rt := testSetup(t)
	chart := &stubChart{img: pngBytes(t, 4, 4)}
	doc := fixedGenerator(chart, nil).Generate(context.Background(), nil, Context{}, cat, rt)
	if chart.labels != nil {
		t.Error("chart rendered for an empty selection")
	}
	if slices.Contains(doc.Sections(), SectionChart) || slices.Contains(doc.Sections(), SectionNotes) {
		t.Errorf("Sections = %v", doc.Sections())
	}
	if doc.Header().Currency != "USD" {
		t.Errorf("currency should default to catalog default, got %q", doc.Header().Currency)
	}
}

func TestDocumentAccessorsCopy(t *testing.T) {
	cat, rt := testSetup(t)
	doc := fixedGenerator(&stubChart{img: pngBytes(t, 2, 2)}, nil).Generate(context.Background(), cat.Apps(), Context{}, cat, rt)
	rows := doc.Rows()
	rows[0].Name = "mutated"
	img := doc.Chart()
	img[0] = 0
	if doc.Rows()[0].Name == "mutated" || doc.Chart()[0] == 0 {
		t.Error("accessors exposed internal state")
	}
}

func TestLogo(t *testing.T) {
	cat, rt := testSetup(t)
	rc := Context{Logo: pngBytes(t, 1024, 256)}
	doc := fixedGenerator(nil, nil).Generate(context.Background(), cat.Apps(), rc, cat, rt)

	logo := doc.Header().Logo
	if len(logo) == 0 {
		t.Fatal("logo missing")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(logo))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 256 || cfg.Height != 64 {
		t.Errorf("logo = %dx%d, want 256x64", cfg.Width, cfg.Height)
	}
}

func TestBadLogoIsOmitted(t *testing.T) {
	cat, rt := testSetup(t)
	core, logs := observer.New(zapcore.WarnLevel)
	rc := Context{LogoPath: filepath.Join(t.TempDir(), "missing.png")}
	doc := fixedGenerator(nil, zap.New(core).Sugar()).Generate(context.Background(), cat.Apps(), rc, cat, rt)
	if doc.Header().Logo != nil {
		t.Error("logo should be omitted")
	}
	if logs.Len() != 1 || logs.All()[0].ContextMap()["path"] != rc.LogoPath {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestRemoteChart(t *testing.T) {
	img := pngBytes(t, 3, 3)
	var gotLabels string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			gotLabels = r.URL.Query().Get("l")
			_, _ = w.Write(img)
		case "/text":
			_, _ = w.Write([]byte("<html>busy</html>"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	rc := &RemoteChart{URLTemplate: srv.URL + "/ok?l={labels}&v={values}"}
	out, err := rc.Render(context.Background(), []string{"A & B", "C"}, []float64{1.5, 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(out, img) {
		t.Error("image bytes changed")
	}
	if gotLabels != `["A \u0026 B","C"]` {
		t.Errorf("labels param = %q", gotLabels)
	}

	for _, path := range []string{"/text", "/down"} {
		rc := &RemoteChart{URLTemplate: srv.URL + path + "?l={labels}"}
		_, err := rc.Render(context.Background(), []string{"A"}, []float64{1})
		var ce *ChartError
		if !errors.As(err, &ce) {
			t.Errorf("%s: err = %v, want ChartError", path, err)
		}
	}
}

func TestRemoteChartURLEscapes(t *testing.T) {
	rc := &RemoteChart{URLTemplate: "https://charts.example/pie?labels={labels}&values={values}"}
	u, err := rc.URL([]string{"Dev Tools"}, []float64{12.5})
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Query().Get("labels") != `["Dev Tools"]` || parsed.Query().Get("values") != "[12.5]" {
		t.Errorf("URL = %s", u)
	}
}

func TestLocalChart(t *testing.T) {
	out, err := LocalChart{Width: 300, Height: 200}.Render(context.Background(), []string{"A", "B"}, []float64{3, 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(out)); err != nil {
		t.Errorf("not a PNG: %v", err)
	}
	if _, err := (LocalChart{}).Render(context.Background(), []string{"A"}, []float64{0}); err == nil {
		t.Error("expected error for all-zero values")
	}
}

func TestFallbackChart(t *testing.T) {
	img := pngBytes(t, 2, 2)
	fc := FallbackChart{
		Primary:   &stubChart{err: errors.New("down")},
		Secondary: &stubChart{img: img},
	}
	out, err := fc.Render(context.Background(), []string{"A"}, []float64{1})
	if err != nil || !bytes.Equal(out, img) {
		t.Errorf("Render = %v, %v", out, err)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	cat, rt := testSetup(t)
	rc := Context{ClientName: "<script>alert(1)</script>", Notes: "a < b", Currency: "EUR"}
	doc := fixedGenerator(&stubChart{img: pngBytes(t, 2, 2)}, nil).Generate(context.Background(), cat.Apps(), rc, cat, rt)

	var buf bytes.Buffer
	if err := WriteHTML(&buf, doc); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert") {
		t.Error("client name not escaped")
	}
	for _, want := range []string{"data:image/png;base64,", "€29.00", "a &lt; b", "Tech Stack Estimate"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestWriteStyledHTMLRejectsUnsafeStyle(t *testing.T) {
	cat, rt := testSetup(t)
	doc := fixedGenerator(nil, nil).Generate(context.Background(), cat.Apps(), Context{Currency: "EUR"}, cat, rt)

	tests := []struct {
		name       string
		style      HTMLStyle
		wantAccent string
		wantFont   string
	}{
		{"plain", HTMLStyle{Accent: "#0077be", Font: `"Helvetica Neue", Arial`}, "#0077be", `"Helvetica Neue", Arial`},
		{"rgb", HTMLStyle{Accent: "rgb(0, 119, 190)", Font: "Georgia"}, "rgb(0, 119, 190)", "Georgia"},
		{"breakout", HTMLStyle{Accent: "red}</style><script>alert(1)</script>", Font: "x;}</style><script>"}, defaultStyle.Accent, defaultStyle.Font},
		{"empty", HTMLStyle{}, defaultStyle.Accent, defaultStyle.Font},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteStyledHTML(&buf, doc, tt.style); err != nil {
				t.Fatalf("WriteStyledHTML: %v", err)
			}
			out := buf.String()
			if strings.Contains(out, "<script>") {
				t.Error("style value broke out of the style block")
			}
			if !strings.Contains(out, "color: "+tt.wantAccent+";") {
				t.Errorf("accent %q not rendered", tt.wantAccent)
			}
			if !strings.Contains(out, "font-family: "+tt.wantFont+";") {
				t.Errorf("font %q not rendered", tt.wantFont)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	cat, rt := testSetup(t)
	rc := Context{PreparerName: "Dana", ClientName: "Acme", Currency: "EUR", Notes: "Call back"}
	doc := fixedGenerator(nil, nil).Generate(context.Background(), cat.Apps(), rc, cat, rt)

	var buf bytes.Buffer
	if err := WriteText(&buf, doc); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Prepared by: Dana", "Prepared for: Acme", "€9.00", "€20.00", "Total", "€29.00", "Call back"} {
		if !strings.Contains(out, want) {
			t.Errorf("text missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Total") > strings.Index(out, "Notes") {
		t.Error("notes should follow totals")
	}
}

func TestExport(t *testing.T) {
	cat, rt := testSetup(t)
	doc := fixedGenerator(nil, nil).Generate(context.Background(), cat.Apps(), Context{ClientName: "Acme"}, cat, rt)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := Export(dir, doc, FormatText, HTMLStyle{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "Acme_Tech_Stack.txt" {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatHTML, "HTML": FormatHTML, "txt": FormatText} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("pdf should be rejected")
	}
}

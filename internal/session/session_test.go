package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/snapshot"

	"github.com/shopspring/decimal"
)

const testCatalog = `{
  "config": {
    "apis": {"currency": "RATES_URL/{currency}.json"},
    "currencies": {"supported": ["USD", "EUR"], "default": "USD"},
    "templates": [{"name": "Starter", "appIds": [2, 1, 42]}]
  },
  "categories": [{"name": "Productivity"}, {"name": "Design"}],
  "apps": [
    {"id": 1, "name": "Docs", "category": "Productivity", "cost": {"monthly": 10, "yearly": 100, "currency": "USD"}},
    {"id": 2, "name": "Draw", "category": "Design", "cost": {"monthly": 20, "yearly": 200, "currency": "EUR"}},
    {"id": 3, "name": "Chat", "category": "Productivity", "cost": {"monthly": 5, "yearly": 50, "currency": "USD"}}
  ]
}`

func writeCatalog(t *testing.T, ratesURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	doc := strings.Replace(testCatalog, "RATES_URL", ratesURL, 1)
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	rt := currency.RateTable{Base: "usd", Rates: map[string]decimal.Decimal{
		"usd": decimal.NewFromInt(1),
		"eur": decimal.RequireFromString("0.9"),
	}}
	return New(cat, rt)
}

func TestOpenFetchesRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usd.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"usd": {"usd": 1, "eur": 0.9}}`))
	}))
	defer srv.Close()

	s, err := Open(context.Background(), Options{CatalogSource: writeCatalog(t, srv.URL), Currency: "eur"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Rates().Degraded {
		t.Error("rates should not be degraded")
	}
	if s.Currency() != "EUR" {
		t.Errorf("Currency = %q, want canonical EUR", s.Currency())
	}
	if err := s.Add(1); err != nil {
		t.Fatal(err)
	}
	if got := s.Quote().Total.StringFixed(2); got != "9.00" {
		t.Errorf("total = %s, want 9.00", got)
	}
}

func TestOpenDegradesWhenRatesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := Open(context.Background(), Options{CatalogSource: writeCatalog(t, srv.URL)})
	if err != nil {
		t.Fatalf("Open should survive a rate failure: %v", err)
	}
	if !s.Rates().Degraded || !s.Quote().Degraded {
		t.Error("expected degraded parity rates")
	}
}

func TestOpenOffline(t *testing.T) {
	s, err := Open(context.Background(), Options{CatalogSource: writeCatalog(t, "http://127.0.0.1:1"), Offline: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Rates().Degraded || !s.Rates().Rate("eur").Equal(decimal.NewFromInt(1)) {
		t.Errorf("offline rates = %+v", s.Rates())
	}
}

func TestOpenCatalogFailureIsFatal(t *testing.T) {
	_, err := Open(context.Background(), Options{CatalogSource: filepath.Join(t.TempDir(), "none.json")})
	if !catalog.IsUnreachable(err) {
		t.Fatalf("err = %v, want unreachable", err)
	}
}

func TestOpenRejectsUnsupportedCurrency(t *testing.T) {
	_, err := Open(context.Background(), Options{CatalogSource: writeCatalog(t, ""), Offline: true, Currency: "JPY"})
	if err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}

func TestApplyPricing(t *testing.T) {
	monthly := 7.5
	s, err := Open(context.Background(), Options{
		CatalogSource: writeCatalog(t, ""),
		Offline:       true,
		Pricing: map[int]config.AppPricingOverride{
			1:  {Monthly: &monthly, Currency: "EUR"},
			99: {Monthly: &monthly},
		},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	app, _ := s.Catalog().App(1)
	if !app.Cost.Monthly.Equal(decimal.RequireFromString("7.5")) || app.Cost.Currency != "EUR" {
		t.Errorf("override not applied: %+v", app.Cost)
	}
	if !app.Cost.Yearly.Equal(decimal.NewFromInt(100)) {
		t.Error("yearly should be untouched")
	}
}

func TestTemplateRoutesThroughReplace(t *testing.T) {
	s := newTestSession(t)
	_ = s.Add(3)
	if err := s.ApplyTemplate("starter"); err != nil {
		t.Fatal(err)
	}
	if got := s.Selection().IDs(); !slices.Equal(got, []int{2, 1}) {
		t.Errorf("IDs = %v, want [2 1]", got)
	}
	if err := s.ApplyTemplate("nope"); err == nil {
		t.Error("unknown template should fail")
	}
}

func TestAddUnknown(t *testing.T) {
	s := newTestSession(t)
	if err := s.Add(42); err == nil {
		t.Error("expected error")
	}
	if err := s.Toggle(1); err != nil || !s.Selection().Contains(1) {
		t.Error("Toggle should add")
	}
	if err := s.Toggle(1); err != nil || s.Selection().Contains(1) {
		t.Error("Toggle should remove")
	}
}

func TestRestoreAllOrNothing(t *testing.T) {
	s := newTestSession(t)
	s.SetDetails(Details{ClientName: "Acme", Notes: "keep"})
	_ = s.Add(1)

	err := s.Restore([]byte(`{"clientName": "Other", "techStackIds": "oops"}`))
	var pe *snapshot.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if s.Details().ClientName != "Acme" || s.Details().Notes != "keep" {
		t.Error("details changed on failed restore")
	}
	if got := s.Selection().IDs(); !slices.Equal(got, []int{1}) {
		t.Errorf("selection changed on failed restore: %v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSession(t)
	s.SetDetails(Details{PreparerName: "Dana", ClientName: "Acme", Notes: "n"})
	_ = s.Add(2)
	_ = s.Add(1)

	data, err := snapshot.Serialize(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	other := newTestSession(t)
	if err := other.Restore(data); err != nil {
		t.Fatal(err)
	}
	if other.Details() != s.Details() {
		t.Errorf("details = %+v", other.Details())
	}
	if !slices.Equal(other.Selection().IDs(), []int{2, 1}) {
		t.Errorf("ids = %v", other.Selection().IDs())
	}
}

func TestRestoreDropsUnknownIDs(t *testing.T) {
	s := newTestSession(t)
	if err := s.Restore([]byte(`{"techStackIds": [3, 77, 1]}`)); err != nil {
		t.Fatal(err)
	}
	if got := s.Selection().IDs(); !slices.Equal(got, []int{3, 1}) {
		t.Errorf("IDs = %v", got)
	}
}

func TestShareLink(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.ShareLink(); !errors.Is(err, snapshot.ErrEmptySelection) {
		t.Fatalf("empty: err = %v", err)
	}
	_ = s.Add(3)
	_ = s.Add(1)
	q, err := s.ShareLink()
	if err != nil {
		t.Fatal(err)
	}

	other := newTestSession(t)
	other.SetDetails(Details{ClientName: "Keep"})
	if n := other.OpenLink("https://example.com/?" + q + "&x=1"); n != 2 {
		t.Errorf("OpenLink kept %d", n)
	}
	if other.Details().ClientName != "Keep" {
		t.Error("OpenLink touched details")
	}
}

func TestCurrencyAndCycle(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetCurrency("gbp"); err == nil {
		t.Error("gbp should be unsupported")
	}
	if got := s.NextCurrency(); got != "EUR" {
		t.Errorf("NextCurrency = %q", got)
	}
	if got := s.NextCurrency(); got != "USD" {
		t.Errorf("NextCurrency wrap = %q", got)
	}
	s.SetCycle(model.Yearly)
	_ = s.Add(1)
	if !s.Quote().Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("yearly total = %s", s.Quote().Total)
	}
	rc := s.ReportContext()
	if rc.Cycle != model.Yearly || rc.Currency != "USD" {
		t.Errorf("ReportContext = %+v", rc)
	}
}

func TestReplaceCatalog(t *testing.T) {
	s := newTestSession(t)
	_ = s.Add(1)
	_ = s.Add(2)
	_ = s.SetCurrency("EUR")

	edited, err := s.Catalog().WithoutApp(2)
	if err != nil {
		t.Fatal(err)
	}
	edited, err = edited.WithCurrencies(catalog.CurrencyConfig{Supported: []string{"USD"}, Default: "USD"})
	if err != nil {
		t.Fatal(err)
	}
	s.ReplaceCatalog(edited)

	if got := s.Selection().IDs(); !slices.Equal(got, []int{1}) {
		t.Errorf("IDs = %v", got)
	}
	if s.Currency() != "USD" {
		t.Errorf("Currency = %q", s.Currency())
	}
}

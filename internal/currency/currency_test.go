package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func table(base string, rates map[string]string) RateTable {
	rt := RateTable{Base: base, Rates: map[string]decimal.Decimal{}}
	for k, v := range rates {
		rt.Rates[k] = decimal.RequireFromString(v)
	}
	return rt
}

func TestConvertScenario(t *testing.T) {
	rt := table("usd", map[string]string{"usd": "1", "eur": "0.9"})

	if got := Convert(decimal.NewFromInt(10), "USD", "EUR", rt).StringFixed(2); got != "9.00" {
		t.Errorf("10 USD -> EUR = %s, want 9.00", got)
	}
	if got := Convert(decimal.NewFromInt(20), "EUR", "EUR", rt).StringFixed(2); got != "20.00" {
		t.Errorf("20 EUR -> EUR = %s, want 20.00", got)
	}
	if got := Convert(decimal.NewFromInt(20), "EUR", "USD", rt).StringFixed(2); got != "22.22" {
		t.Errorf("20 EUR -> USD = %s, want 22.22", got)
	}
}

func TestConvertIdentity(t *testing.T) {
	rt := table("usd", map[string]string{"usd": "1", "eur": "0.9", "gbp": "0.77"})
	x := decimal.RequireFromString("123.456789")
	for _, c := range []string{"USD", "EUR", "GBP", "eur"} {
		if got := Convert(x, c, c, rt); !got.Equal(x) {
			t.Errorf("Convert(x, %s, %s) = %s", c, c, got)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	rt := table("usd", map[string]string{"usd": "1", "eur": "0.9", "jpy": "151.37"})
	x := decimal.RequireFromString("19.99")
	for _, c := range []string{"eur", "jpy"} {
		back := Convert(Convert(x, "usd", c, rt), c, "usd", rt)
		if !back.Round(10).Equal(x) {
			t.Errorf("round trip via %s = %s", c, back)
		}
	}
}

func TestConvertMissingRateIsOne(t *testing.T) {
	rt := table("usd", map[string]string{"usd": "1", "zero": "0"})
	x := decimal.NewFromInt(7)
	if got := Convert(x, "xyz", "usd", rt); !got.Equal(x) {
		t.Errorf("missing rate: %s", got)
	}
	if got := Convert(x, "zero", "usd", rt); !got.Equal(x) {
		t.Errorf("zero rate: %s", got)
	}
}

func TestParity(t *testing.T) {
	rt := Parity("USD", []string{"EUR", "GBP"})
	if rt.Base != "usd" {
		t.Errorf("Base = %q", rt.Base)
	}
	if got := rt.Codes(); len(got) != 3 || got[0] != "eur" {
		t.Errorf("Codes = %v", got)
	}
	for _, c := range rt.Codes() {
		if !rt.Rate(c).Equal(decimal.NewFromInt(1)) {
			t.Errorf("rate %s = %s", c, rt.Rate(c))
		}
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rates/usd.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"date": "2026-10-01", "usd": {"eur": 0.9, "usd": 1.0000001, "gbp": "0.77", "neg": -2}}`))
	}))
	defer srv.Close()

	f := &HTTPFetcher{URLTemplate: srv.URL + "/rates/{currency}.json"}
	rt, err := f.Fetch(context.Background(), "USD")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !rt.Rate("EUR").Equal(decimal.RequireFromString("0.9")) {
		t.Errorf("eur = %s", rt.Rate("EUR"))
	}
	if !rt.Rates["usd"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("base rate = %s, want exactly 1", rt.Rates["usd"])
	}
	if !rt.Rate("gbp").Equal(decimal.RequireFromString("0.77")) {
		t.Errorf("gbp = %s", rt.Rate("gbp"))
	}
	if rt.Has("neg") {
		t.Error("non-positive rate should be skipped")
	}
	if rt.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestHTTPFetcherAppendsBase(t *testing.T) {
	f := &HTTPFetcher{URLTemplate: "https://rates.example/v1/"}
	if got := f.URL("EUR"); got != "https://rates.example/v1/eur.json" {
		t.Errorf("URL = %q", got)
	}
}

func TestHTTPFetcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing/usd.json" {
			_, _ = w.Write([]byte(`{"eur": {"usd": 1.1}}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	for _, tmpl := range []string{srv.URL + "/missing/{currency}.json", srv.URL + "/down/{currency}.json", ""} {
		f := &HTTPFetcher{URLTemplate: tmpl}
		_, err := f.Fetch(context.Background(), "usd")
		var rfe *RateFetchError
		if !errors.As(err, &rfe) || rfe.Base != "usd" {
			t.Errorf("%q: got %v, want RateFetchError", tmpl, err)
		}
	}
}

type failingFetcher struct{}

func (failingFetcher) Fetch(_ context.Context, base string) (RateTable, error) {
	return RateTable{}, &RateFetchError{Base: base, Err: errors.New("connection refused")}
}

func TestEngineFallsBackToParity(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := NewEngine(failingFetcher{}, []string{"USD", "EUR"}, zap.New(core).Sugar())

	rt := e.Build(context.Background(), "USD")
	if !rt.Degraded {
		t.Error("Degraded = false")
	}
	if !rt.Rate("eur").Equal(decimal.NewFromInt(1)) {
		t.Errorf("eur = %s", rt.Rate("eur"))
	}
	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warn) != 1 {
		t.Fatalf("warn entries = %d, want 1", len(warn))
	}
	if warn[0].ContextMap()["base"] != "usd" {
		t.Errorf("log fields = %v", warn[0].ContextMap())
	}
}

func TestEngineOffline(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rt := NewEngine(nil, []string{"USD"}, zap.New(core).Sugar()).Build(context.Background(), "USD")
	if rt.Degraded {
		t.Error("offline parity should not be marked degraded")
	}
	if logs.FilterLevelExact(zapcore.InfoLevel).Len() != 1 {
		t.Error("expected one info entry")
	}
}

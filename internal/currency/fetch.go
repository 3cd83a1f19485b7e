package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/remote"

	"github.com/shopspring/decimal"
)

// Fetcher retrieves a rate table relative to base.
type Fetcher interface {
	Fetch(ctx context.Context, base string) (RateTable, error)
}

// HTTPFetcher reads rates from a JSON endpoint shaped
// {"<base>": {"<code>": rate, ...}}. Other top-level keys are ignored.
type HTTPFetcher struct {
	Client      remote.Getter
	URLTemplate string // {currency} is replaced with the lowercase base
	Now         func() time.Time
}

// URL returns the request URL for base.
func (f *HTTPFetcher) URL(base string) string {
	b := strings.ToLower(base)
	if strings.Contains(f.URLTemplate, "{currency}") {
		return remote.Fill(f.URLTemplate, map[string]string{"currency": b})
	}
	return strings.TrimRight(f.URLTemplate, "/") + "/" + b + ".json"
}

// Fetch implements Fetcher. Errors are *RateFetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, base string) (RateTable, error) {
	b := strings.ToLower(base)
	if strings.TrimSpace(f.URLTemplate) == "" {
		return RateTable{}, &RateFetchError{Base: b, Err: errors.New("no rate source configured")}
	}
	client := f.Client
	if client == nil {
		client = remote.New()
	}

	var top map[string]json.RawMessage
	if err := remote.DecodeJSON(ctx, client, f.URL(b), &top); err != nil {
		return RateTable{}, &RateFetchError{Base: b, Err: err}
	}
	raw, ok := top[b]
	if !ok {
		return RateTable{}, &RateFetchError{Base: b, Err: fmt.Errorf("response has no %q object", b)}
	}

	var nums map[string]json.Number
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&nums); err != nil {
		return RateTable{}, &RateFetchError{Base: b, Err: fmt.Errorf("parsing %q rates: %w", b, err)}
	}

	rt := RateTable{Base: b, Rates: make(map[string]decimal.Decimal, len(nums)+1)}
	for code, n := range nums {
		d, err := decimal.NewFromString(n.String())
		if err != nil || !d.IsPositive() {
			continue
		}
		rt.Rates[strings.ToLower(code)] = d
	}
	rt.Rates[b] = decimal.NewFromInt(1)
	if f.Now != nil {
		rt.FetchedAt = f.Now()
	} else {
		rt.FetchedAt = time.Now()
	}
	return rt, nil
}

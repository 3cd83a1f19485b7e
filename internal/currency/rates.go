// Package currency converts amounts between currencies through a
// base-denominated rate table.
package currency

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// divisionPlaces is the scale of the intermediate base amount in Convert.
const divisionPlaces = 28

// RateTable maps lowercase currency codes to rates relative to Base.
// Rates[Base] is always 1.
type RateTable struct {
	Base      string
	Rates     map[string]decimal.Decimal
	Degraded  bool // flat parity substituted after a failed fetch
	FetchedAt time.Time
}

// Rate returns the rate for code. Missing and non-positive entries read as 1.
func (rt RateTable) Rate(code string) decimal.Decimal {
	r, ok := rt.Rates[strings.ToLower(code)]
	if !ok || !r.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return r
}

// Has reports whether the table has an explicit entry for code.
func (rt RateTable) Has(code string) bool {
	_, ok := rt.Rates[strings.ToLower(code)]
	return ok
}

// Codes returns the table's currency codes, sorted.
func (rt RateTable) Codes() []string {
	codes := make([]string, 0, len(rt.Rates))
	for c := range rt.Rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Parity returns a table mapping base and every supported currency to 1.
func Parity(base string, supported []string) RateTable {
	rt := RateTable{
		Base:  strings.ToLower(base),
		Rates: make(map[string]decimal.Decimal, len(supported)+1),
	}
	one := decimal.NewFromInt(1)
	rt.Rates[rt.Base] = one
	for _, c := range supported {
		rt.Rates[strings.ToLower(c)] = one
	}
	return rt
}

// Convert computes (amount / rate[from]) * rate[to]. Equal codes return amount unchanged.
func Convert(amount decimal.Decimal, from, to string, rt RateTable) decimal.Decimal {
	if strings.EqualFold(from, to) {
		return amount
	}
	return amount.DivRound(rt.Rate(from), divisionPlaces).Mul(rt.Rate(to))
}

// RateFetchError reports a failed rate fetch. Engine.Build recovers from it.
type RateFetchError struct {
	Base string
	Err  error
}

func (e *RateFetchError) Error() string {
	return fmt.Sprintf("currency: fetching rates for %s: %v", e.Base, e.Err)
}

func (e *RateFetchError) Unwrap() error { return e.Err }

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// PricingOverrides holds negotiated prices that replace catalog costs for
// specific app ids, keyed by the id as a string:
//
//	[pricing.overrides.3]
//	monthly = 12.0
//	currency = "EUR"
type PricingOverrides struct {
	Overrides map[string]AppPricingOverride `toml:"overrides,omitempty"`
}

// AppPricingOverride replaces any subset of an app's cost fields.
type AppPricingOverride struct {
	Monthly  *float64 `toml:"monthly,omitempty"`
	Yearly   *float64 `toml:"yearly,omitempty"`
	Currency string   `toml:"currency,omitempty"`
}

// Empty reports whether the override changes nothing.
func (o AppPricingOverride) Empty() bool {
	return o.Monthly == nil && o.Yearly == nil && strings.TrimSpace(o.Currency) == ""
}

// ForApps returns the overrides keyed by integer app id.
// Keys that are not integers, negative prices, and empty overrides are errors.
func (p PricingOverrides) ForApps() (map[int]AppPricingOverride, error) {
	out := make(map[int]AppPricingOverride, len(p.Overrides))
	for key, o := range p.Overrides {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("pricing override %q: app id must be an integer", key)
		}
		if o.Empty() {
			return nil, fmt.Errorf("pricing override %d: no fields set", id)
		}
		if (o.Monthly != nil && *o.Monthly < 0) || (o.Yearly != nil && *o.Yearly < 0) {
			return nil, fmt.Errorf("pricing override %d: negative price", id)
		}
		out[id] = o
	}
	return out, nil
}

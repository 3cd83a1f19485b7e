package config

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestPricingOverridesForApps(t *testing.T) {
	var cfg Config
	_, err := toml.Decode(`
[pricing.overrides.3]
monthly = 12.5
currency = "EUR"

[pricing.overrides.7]
yearly = 100
`, &cfg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	byID, err := cfg.Pricing.ForApps()
	if err != nil {
		t.Fatalf("ForApps: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("len = %d, want 2", len(byID))
	}
	o := byID[3]
	if o.Monthly == nil || *o.Monthly != 12.5 {
		t.Fatalf("override 3 monthly = %v, want 12.5", o.Monthly)
	}
	if o.Currency != "EUR" {
		t.Errorf("override 3 currency = %q, want EUR", o.Currency)
	}
	if byID[7].Monthly != nil {
		t.Error("override 7 monthly should be unset")
	}
}

func TestPricingOverridesRejectsBadKeys(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name string
		p    PricingOverrides
		want string
	}{
		{"non-integer key", PricingOverrides{Overrides: map[string]AppPricingOverride{"abc": {Monthly: &neg}}}, "integer"},
		{"empty override", PricingOverrides{Overrides: map[string]AppPricingOverride{"1": {}}}, "no fields"},
		{"negative price", PricingOverrides{Overrides: map[string]AppPricingOverride{"1": {Monthly: &neg}}}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.ForApps()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

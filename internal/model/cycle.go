// Package model defines the shared value types passed between the catalog,
// aggregation, and rendering layers.
package model

import (
	"fmt"
	"strings"
)

// Cycle is a billing cycle. Costs are aggregated under exactly one cycle at a time.
type Cycle int

const (
	Monthly Cycle = iota
	Yearly
)

// Cycles lists every billing cycle in display order.
var Cycles = []Cycle{Monthly, Yearly}

// String returns the lowercase cycle name used in flags, config, and JSON.
func (c Cycle) String() string {
	if c == Yearly {
		return "yearly"
	}
	return "monthly"
}

// Label returns the capitalized cycle name used in tables and reports.
func (c Cycle) Label() string {
	if c == Yearly {
		return "Yearly"
	}
	return "Monthly"
}

// Toggle returns the other cycle.
func (c Cycle) Toggle() Cycle {
	if c == Yearly {
		return Monthly
	}
	return Yearly
}

// ParseCycle parses "monthly"/"yearly" (case-insensitive, "mo"/"yr" accepted).
// An empty string is Monthly.
func ParseCycle(s string) (Cycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month", "mo", "m":
		return Monthly, nil
	case "yearly", "year", "annual", "yr", "y":
		return Yearly, nil
	}
	return Monthly, fmt.Errorf("unknown billing cycle %q (want monthly or yearly)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Cycle) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cycle) UnmarshalText(b []byte) error {
	parsed, err := ParseCycle(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

package model

import "testing"

func TestParseCycle(t *testing.T) {
	tests := []struct {
		in      string
		want    Cycle
		wantErr bool
	}{
		{"", Monthly, false},
		{"monthly", Monthly, false},
		{"Yearly", Yearly, false},
		{" yr ", Yearly, false},
		{"weekly", Monthly, true},
	}
	for _, tt := range tests {
		got, err := ParseCycle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseCycle(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCycle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCycleLabelAndToggle(t *testing.T) {
	if Monthly.Label() != "Monthly" || Yearly.Label() != "Yearly" {
		t.Fatalf("labels = %q/%q", Monthly.Label(), Yearly.Label())
	}
	if Monthly.Toggle() != Yearly || Yearly.Toggle() != Monthly {
		t.Fatal("Toggle did not flip cycle")
	}
}

func TestCycleTextRoundTrip(t *testing.T) {
	var c Cycle
	if err := c.UnmarshalText([]byte("yearly")); err != nil {
		t.Fatal(err)
	}
	b, _ := c.MarshalText()
	if string(b) != "yearly" {
		t.Fatalf("MarshalText = %q, want yearly", b)
	}
}

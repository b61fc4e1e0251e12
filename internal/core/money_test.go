package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"12.5", 1250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.001", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		1250:   "12.50",
		350000: "3500.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 8550})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "85.5" {
		t.Fatalf("expected 85.5, got %s", b)
	}

	for _, in := range []string{`85.5`, `"85.50"`, `85.499`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if m.Cents != 8550 {
			t.Errorf("unmarshal %s: expected 8550 cents, got %d", in, m.Cents)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestMoneyJSONRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{`1e17`, `"-1e17"`, `46116860184273879.04`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("unmarshal %s: err = %v, want ErrInvalidAmount (cents %d)", in, err, m.Cents)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`-1234.5`), &m); err != nil || m.Cents != -123450 {
		t.Errorf("negative balance: cents = %d, err = %v", m.Cents, err)
	}
}

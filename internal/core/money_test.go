package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"$50", "50.00", true},
		{" 2.50 ", "2.50", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
		{"$", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestNewAmountRejectsNegative(t *testing.T) {
	if _, err := NewAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	a, err := NewAmount(decimal.Zero)
	if err != nil || !a.IsZero() {
		t.Fatalf("expected zero amount to be accepted, got %v (err=%v)", a, err)
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(MustParseAmount("12.5"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.5" {
		t.Fatalf("expected bare number, got %s", b)
	}

	var a Amount
	if err := json.Unmarshal([]byte("1000.0"), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Equal(MustParseAmount("1000")) {
		t.Fatalf("expected 1000, got %s", a)
	}

	if err := json.Unmarshal([]byte("-3"), &a); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	items := []CategoryAmount{
		{Name: "Food", Amount: MustParseAmount("70")},
		{Name: "Rent", Amount: MustParseAmount("10.25")},
	}
	if got := Total(items); !got.Equal(decimal.RequireFromString("80.25")) {
		t.Fatalf("expected 80.25, got %s", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

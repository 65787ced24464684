package money

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, s string) Amount {
	t.Helper()
	a, err := FromStored(s)
	if err != nil {
		t.Fatalf("FromStored(%q) err=%v", s, err)
	}
	return a
}

func TestAddNoFloatDrift(t *testing.T) {
	// 10.1 + 0.2 is the classic binary-float trap (10.299999...).
	got := mustParse(t, "10.1").Add(mustParse(t, "0.2")).Stored()
	if got != "10.300" {
		t.Fatalf("10.1 + 0.2 = %q, want \"10.300\"", got)
	}
}

func TestStoredAlwaysThreeFractionDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", "50.000"},
		{"50.0", "50.000"},
		{"0.5", "0.500"},
		{"-3.14", "-3.140"},
		{"1234567890123456.789", "1234567890123456.789"},
	}
	for _, tt := range tests {
		if got := mustParse(t, tt.in).Stored(); got != tt.want {
			t.Errorf("Stored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromStoredMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "10,5", "NaN"} {
		if _, err := FromStored(in); !errors.Is(err, ErrMalformedAmount) {
			t.Errorf("FromStored(%q) err=%v, want ErrMalformedAmount", in, err)
		}
	}
}

func TestSubAndCmp(t *testing.T) {
	a := mustParse(t, "75.000")
	b := mustParse(t, "75")
	if a.Cmp(b) != 0 {
		t.Fatalf("75.000 != 75")
	}
	if got := a.Sub(mustParse(t, "0.001")).Stored(); got != "74.999" {
		t.Fatalf("75.000 - 0.001 = %q", got)
	}
	if mustParse(t, "10").Cmp(mustParse(t, "10.001")) != -1 {
		t.Fatalf("10 should compare less than 10.001")
	}
}

func TestNettingSequenceLeavesBalanceUnchanged(t *testing.T) {
	// A deposit/withdraw sequence netting to zero must restore the exact
	// starting balance.
	balance := mustParse(t, DefaultBalance)
	deltas := []string{"0.1", "0.2", "-0.3", "12.345", "-12.345"}
	for _, d := range deltas {
		balance = balance.Add(mustParse(t, d))
	}
	if got := balance.Stored(); got != DefaultBalance {
		t.Fatalf("net-zero sequence moved balance: %q", got)
	}
}

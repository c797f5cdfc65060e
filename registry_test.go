package akka

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		name      string
		base      string
		assets    []Asset
		expectErr bool
	}{
		{"default", "EUR", DefaultAssets, false},
		{"other base", "USD", DefaultAssets, false},
		{"no assets", "EUR", nil, false},
		{"unknown currency", "XYZ", DefaultAssets, true},
		{"empty currency", "", DefaultAssets, true},
		{"asset named like base", "EUR", []Asset{{"eur", "Euro"}}, true},
		{"duplicate", "EUR", []Asset{{"BTC", "Bitcoin"}, {" btc", "Bitcoin again"}}, true},
		{"empty symbol", "EUR", []Asset{{"", "Nothing"}}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.base, tc.assets...)
			if hasErr := err != nil; hasErr != tc.expectErr {
				t.Errorf("NewRegistry(%q) error = %v, want error: %v", tc.base, err, tc.expectErr)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry("EUR", Asset{"sol", "Solana"}, Asset{"BTC", "Bitcoin"})
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := r.Asset("SOL"); !ok || a.Name != "Solana" {
		t.Errorf("Asset(SOL) = %v, %v", a, ok)
	}
	if _, ok := r.Asset("EUR"); ok {
		t.Error("the base currency is not an asset")
	}
	if !r.IsBase("EUR") || r.IsBase("BTC") {
		t.Error("IsBase() is wrong")
	}
	if got := slices.Collect(r.Symbols()); !slices.Equal(got, []string{"BTC", "SOL"}) {
		t.Errorf("Symbols() = %v, want [BTC SOL]", got)
	}
}

func TestParseMoney(t *testing.T) {
	if m, err := ParseMoney("2970.50", "EUR"); err != nil || !m.Equal(M(2970.5, "EUR")) {
		t.Errorf("ParseMoney(2970.50) = %v, %v", m, err)
	}
	for _, in := range []string{"1e-3000000", "1e3000000", "12,5"} {
		if _, err := ParseMoney(in, "EUR"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseMoney(%q) error = %v, want ErrInvalidAmount", in, err)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		in        string
		want      Quantity
		expectErr bool
	}{
		{"0.01", Q(0.01), false},
		{" 2.5 ", Q(2.5), false},
		{"-3", Q(-3), false},
		{"", Quantity{}, true},
		{"1,5", Quantity{}, true},
		{"abc", Quantity{}, true},
		{"0.000000000000000001", Q(1e-18), false},
		{"123456789012345678901234567890", Q(decimal.RequireFromString("123456789012345678901234567890")), false},
		{"1e-3000000", Quantity{}, true},
		{"0.0000000000000000001", Quantity{}, true},
		{"1e30", Quantity{}, true},
		{"1234567890123456789012345678901", Quantity{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseQuantity(tc.in)
		if hasErr := err != nil; hasErr != tc.expectErr {
			t.Errorf("ParseQuantity(%q) error = %v, want error: %v", tc.in, err, tc.expectErr)
			continue
		}
		if !tc.expectErr && !got.Equal(tc.want) {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

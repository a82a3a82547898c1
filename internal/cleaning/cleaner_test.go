package cleaning

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func TestCleanProductName(t *testing.T) {
	testCases := []struct{ in, want string }{
		{"Mouse,Wireless", "MouseWireless"},
		{"Laptop", "Laptop"},
		{",Cable,,USB,", "CableUSB"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := CleanProductName(tc.in); got != tc.want {
			t.Errorf("CleanProductName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCoerceQuantity(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"1,500", 1500},
		{"2", 2},
		{" 7 ", 7},
		{"2.9", 2},
		{"0", 0},
		{"-3", -3},
		{"abc", 0},
		{"", 0},
		{"99999999999999999999999", 0},
	}
	for _, tc := range testCases {
		if got := CoerceQuantity(tc.in); got != tc.want {
			t.Errorf("CoerceQuantity(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCoerceUnitPrice(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"1,000", "1000"},
		{"1,234.56", "1234.56"},
		{"0.10", "0.1"},
		{"12x", "0"},
		{"", "0"},
		{"-5", "-5"},
	}
	for _, tc := range testCases {
		got := CoerceUnitPrice(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("CoerceUnitPrice(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCleanKeepsIdentityFields(t *testing.T) {
	candidate := types.CandidateRecord{
		TransactionID: "T1",
		Date:          "2024-01-01",
		ProductID:     "P1",
		ProductName:   "Mouse,Wireless",
		Quantity:      "2",
		UnitPrice:     "1,000",
		CustomerID:    "C1",
		Region:        "East",
		LineNumber:    5,
		Raw:           "raw",
	}

	got := Clean(candidate)
	if got.ProductName != "MouseWireless" {
		t.Errorf("ProductName = %q", got.ProductName)
	}
	if got.Quantity != 2 {
		t.Errorf("Quantity = %d", got.Quantity)
	}
	if !got.UnitPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("UnitPrice = %s", got.UnitPrice)
	}
	if got.QuantityText != "2" || got.UnitPriceText != "1,000" {
		t.Errorf("original text not kept: %q %q", got.QuantityText, got.UnitPriceText)
	}
	if got.TransactionID != "T1" || got.CustomerID != "C1" || got.Region != "East" || got.LineNumber != 5 || got.Raw != "raw" {
		t.Errorf("identity fields changed: %+v", got)
	}

	if all := CleanAll([]types.CandidateRecord{candidate, candidate}); len(all) != 2 {
		t.Errorf("CleanAll returned %d records", len(all))
	}
}

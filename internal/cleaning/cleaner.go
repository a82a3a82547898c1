// =============================================================================
// Sales Analytics - Record Cleaner
// =============================================================================
//
// The cleaner normalizes the dirty formatting found in the legacy export:
//   - ProductName: every comma is removed, with no separator left behind
//     ("Mouse,Wireless" -> "MouseWireless").
//   - Quantity / UnitPrice: thousands separators are stripped before the value
//     is coerced to a number ("1,500" -> 1500).
//
// Cleaning is total. It never drops a record; a numeric field that cannot be
// coerced becomes zero and is rejected later by the validator's positivity
// checks.
//
// =============================================================================

package cleaning

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// Clean reshapes a candidate record into a CleanRecord.
func Clean(record types.CandidateRecord) types.CleanRecord {
	return types.CleanRecord{
		TransactionID: record.TransactionID,
		Date:          record.Date,
		ProductID:     record.ProductID,
		ProductName:   CleanProductName(record.ProductName),
		Quantity:      CoerceQuantity(record.Quantity),
		UnitPrice:     CoerceUnitPrice(record.UnitPrice),
		CustomerID:    record.CustomerID,
		Region:        record.Region,
		QuantityText:  record.Quantity,
		UnitPriceText: record.UnitPrice,
		LineNumber:    record.LineNumber,
		Raw:           record.Raw,
	}
}

// CleanAll cleans every candidate, preserving order.
func CleanAll(records []types.CandidateRecord) []types.CleanRecord {
	cleaned := make([]types.CleanRecord, len(records))
	for i, record := range records {
		cleaned[i] = Clean(record)
	}
	return cleaned
}

// CleanProductName removes every comma from a product name.
func CleanProductName(name string) string {
	return strings.ReplaceAll(name, ",", "")
}

// StripThousandsSeparators removes commas from a numeric field.
func StripThousandsSeparators(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
}

// CoerceQuantity parses a quantity, truncating any fractional part toward zero.
// Values that are not numbers, or do not fit in an int64, coerce to 0.
func CoerceQuantity(value string) int64 {
	d, ok := parseDecimal(value)
	if !ok || d.Abs().GreaterThan(maxQuantity) {
		return 0
	}
	return d.IntPart()
}

// CoerceUnitPrice parses a unit price. Values that are not numbers coerce to 0.
func CoerceUnitPrice(value string) decimal.Decimal {
	d, ok := parseDecimal(value)
	if !ok {
		return decimal.Zero
	}
	return d
}

func parseDecimal(value string) (decimal.Decimal, bool) {
	stripped := StripThousandsSeparators(value)
	if stripped == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

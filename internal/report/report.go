// =============================================================================
// Sales Analytics - Report Writer Module
// =============================================================================
//
// This module renders the plain-text sales report from the results of one run.
// It is a pure presentation step: every number it prints has already been
// computed by the aggregator and the enricher.
//
// REPORT STRUCTURE (fixed section order):
//
//   ================================================================
//   SALES ANALYTICS REPORT                        <- header
//   Generated on / Run ID
//   ----------------------------------------------------------------
//   DATA CLEANING SUMMARY
//   SALES STATISTICS
//   TOP PERFORMERS
//   PRODUCT REVENUE BREAKDOWN
//   REGION REVENUE BREAKDOWN
//   CUSTOMER REVENUE BREAKDOWN
//   INVALID RECORDS SUMMARY
//   API INTEGRATION STATUS
//   ================================================================
//
// Money is printed with a dollar sign, thousands separators and two decimal
// places ("$1,234.50").
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/aggregator"
	"github.com/ginjaninja78/sales-analytics/internal/enricher"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// REPORT OPTIONS
// =============================================================================

// Options controls report layout.
type Options struct {
	// TopProducts limits the product breakdown. 0 lists every product.
	TopProducts int

	// RuleWidth is the width of the section separator lines.
	RuleWidth int

	// TimeFormat is the layout of the generation timestamp.
	TimeFormat string
}

// DefaultOptions returns the standard report layout.
func DefaultOptions() Options {
	return Options{
		TopProducts: 10,
		RuleWidth:   80,
		TimeFormat:  "2006-01-02 15:04:05",
	}
}

// =============================================================================
// REPORT INPUT
// =============================================================================

// CleaningSummary holds the record counts of the cleaning stage.
type CleaningSummary struct {
	// TotalParsed is every non-empty, non-header line.
	TotalParsed int
	Invalid     int
	Valid       int
	EmptyLines  int
}

// Data is everything the report needs. It is assembled by the pipeline.
type Data struct {
	RunID       string
	GeneratedAt time.Time

	Cleaning   CleaningSummary
	Aggregate  *aggregator.Result
	Invalid    []types.InvalidRecord
	Enrichment *enricher.Enrichment
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// Generate renders the report with the default options.
func Generate(data Data) string {
	return GenerateWithOptions(data, DefaultOptions())
}

// GenerateWithOptions renders the report.
//
// PARAMETERS:
//   - data: The results of the run. A nil Aggregate is treated as empty.
//   - options: Layout options.
//
// RETURNS:
//   - The report text, newline-terminated.
func GenerateWithOptions(data Data, options Options) string {
	if options.RuleWidth <= 0 {
		options.RuleWidth = DefaultOptions().RuleWidth
	}
	if options.TimeFormat == "" {
		options.TimeFormat = DefaultOptions().TimeFormat
	}

	agg := data.Aggregate
	if agg == nil {
		agg = aggregator.Aggregate(nil)
	}

	w := &writer{options: options}

	w.rule("=")
	w.line("SALES ANALYTICS REPORT")
	w.rule("=")
	w.line("Generated on: %s", data.GeneratedAt.Format(options.TimeFormat))
	if data.RunID != "" {
		w.line("Run ID: %s", data.RunID)
	}
	w.blank()

	w.section("DATA CLEANING SUMMARY")
	w.line("Total records parsed: %d", data.Cleaning.TotalParsed)
	w.line("Invalid records removed: %d", data.Cleaning.Invalid)
	w.line("Valid records after cleaning: %d", data.Cleaning.Valid)
	w.line("Skipped empty lines: %d", data.Cleaning.EmptyLines)
	w.blank()

	w.section("SALES STATISTICS")
	w.line("Total Revenue: %s", Money(agg.TotalRevenue))
	w.line("Total Transactions: %s", humanize.Comma(int64(agg.TransactionCount)))
	w.line("Average Transaction Value: %s", Money(agg.AverageTransactionValue))
	w.blank()

	w.section("TOP PERFORMERS")
	if agg.TopProduct == nil {
		w.line("No valid transactions.")
	} else {
		w.line("Top Product by Revenue: %s (%s)", productLabel(agg.TopProduct.Key, agg, data.Enrichment), Money(agg.TopProduct.Revenue))
		w.line("Top Region by Revenue: %s (%s)", agg.TopRegion.Key, Money(agg.TopRegion.Revenue))
		w.line("Top Customer by Revenue: %s (%s)", agg.TopCustomer.Key, Money(agg.TopCustomer.Revenue))
	}
	w.blank()

	w.section("PRODUCT REVENUE BREAKDOWN")
	products := agg.ByProduct.Ranked()
	if options.TopProducts > 0 && len(products) > options.TopProducts {
		products = products[:options.TopProducts]
	}
	for _, entry := range products {
		w.line("%s: %s (%s)", productLabel(entry.Key, agg, data.Enrichment), Money(entry.Revenue), Percent(entry.Percentage))
	}
	if n := agg.ByProduct.Len(); n > len(products) {
		w.line("... %d more product(s) not shown", n-len(products))
	}
	w.blank()

	w.section("REGION REVENUE BREAKDOWN")
	for _, entry := range agg.ByRegion.Ranked() {
		w.line("%s: %s (%s)", entry.Key, Money(entry.Revenue), Percent(entry.Percentage))
	}
	w.blank()

	w.section("CUSTOMER REVENUE BREAKDOWN")
	for _, entry := range agg.ByCustomer.Ranked() {
		w.line("%s: %s (%d transaction(s))", entry.Key, Money(entry.Revenue), entry.Transactions)
	}
	w.blank()

	w.section("INVALID RECORDS SUMMARY")
	counts := CountByReason(data.Invalid)
	if len(data.Invalid) == 0 {
		w.line("No invalid records.")
	}
	for _, reason := range types.RejectionReasons {
		if counts[reason] == 0 {
			continue
		}
		w.line("%s (%s): %d record(s)", reason, reason.Description(), counts[reason])
	}
	w.blank()

	w.section("API INTEGRATION STATUS")
	if data.Enrichment == nil {
		w.line("Status: %s", enricher.StateDisabled.Description())
	} else {
		w.line("Status: %s (%s)", data.Enrichment.State, data.Enrichment.State.Description())
		w.line("Products fetched successfully: %d", data.Enrichment.Count(enricher.StatusOK))
		w.line("Products using fallback data: %d", data.Enrichment.Count(enricher.StatusFallback))
		w.line("Products with API errors: %d", data.Enrichment.Count(enricher.StatusFailed))
	}
	w.blank()

	w.rule("=")

	return w.buffer.String()
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// Money formats an amount as dollars with thousands separators and cents.
func Money(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).StringFixed(2)

	return "$" + sign + humanize.BigComma(whole.BigInt()) + strings.TrimPrefix(cents, "0")
}

// Percent formats a 0-100 share with one decimal place.
func Percent(share decimal.Decimal) string {
	return share.StringFixed(1) + "%"
}

// CountByReason tallies invalid records per rejection reason.
func CountByReason(invalid []types.InvalidRecord) map[types.Reason]int {
	counts := make(map[types.Reason]int)
	for _, record := range invalid {
		counts[record.Reason]++
	}
	return counts
}

// NoProductID labels revenue from valid records that carry no ProductID.
const NoProductID = "(no product id)"

// ProductKey returns the display key for a product grouping key.
func ProductKey(productID string) string {
	if productID == "" {
		return NoProductID
	}
	return productID
}

// productLabel prefers the enriched name when the API supplied one, and the
// cleaned name from the input otherwise.
func productLabel(productID string, agg *aggregator.Result, enrichment *enricher.Enrichment) string {
	key := ProductKey(productID)
	name := agg.ProductName(productID)
	if enrichment != nil {
		if entry, ok := enrichment.Lookup(productID); ok && entry.Status == enricher.StatusOK && entry.Metadata.Name != "" {
			name = entry.Metadata.Name
		}
	}
	if name == "" {
		return key
	}
	return fmt.Sprintf("%s - %s", key, name)
}

// writer accumulates report lines.
type writer struct {
	buffer  bytes.Buffer
	options Options
}

func (w *writer) line(format string, args ...interface{}) {
	fmt.Fprintf(&w.buffer, format, args...)
	w.buffer.WriteByte('\n')
}

func (w *writer) blank() {
	w.buffer.WriteByte('\n')
}

func (w *writer) rule(char string) {
	w.buffer.WriteString(strings.Repeat(char, w.options.RuleWidth))
	w.buffer.WriteByte('\n')
}

func (w *writer) section(title string) {
	w.rule("-")
	w.line("%s", title)
	w.rule("-")
}

// =============================================================================
// Sales Analytics - Workbook Export
// =============================================================================
//
// This module exports the report data to an XLSX workbook for spreadsheet
// users. It carries the same numbers as the text report:
//
//   Sheet      | Content
//   -----------|-----------------------------------------------------
//   Summary    | run id, timestamp, cleaning counts, sales statistics
//   Products   | ProductID, Name, Category, Revenue, Share, Status
//   Regions    | Region, Revenue, Share
//   Customers  | CustomerID, Revenue, Transactions
//   Invalid    | Line, Reason, Message, Raw
//
// Monetary cells hold numbers with a "#,##0.00" format so they stay usable
// in formulas.
//
// =============================================================================

package xlsxreport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/aggregator"
	"github.com/ginjaninja78/sales-analytics/internal/enricher"
	"github.com/ginjaninja78/sales-analytics/internal/report"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetProducts  = "Products"
	SheetRegions   = "Regions"
	SheetCustomers = "Customers"
	SheetInvalid   = "Invalid"
)

// builtin number format 4 is "#,##0.00".
const moneyNumFmt = 4

// Write saves the workbook to path, replacing any existing file.
//
// PARAMETERS:
//   - path: The destination .xlsx path. The parent directory must exist.
//   - data: The report data of the run.
//
// RETURNS:
//   - An error if a sheet cannot be built or the file cannot be saved.
func Write(path string, data report.Data) error {
	f, err := Build(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Build assembles the workbook in memory.
func Build(data report.Data) (*excelize.File, error) {
	agg := data.Aggregate
	if agg == nil {
		agg = aggregator.Aggregate(nil)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetProducts, SheetRegions, SheetCustomers, SheetInvalid} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	var err error
	b := &builder{f: f}
	if b.moneyStyle, err = f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	if b.headerStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	b.summary(data, agg)
	b.products(data, agg)
	b.regions(agg)
	b.customers(agg)
	b.invalid(data)

	if b.err != nil {
		f.Close()
		return nil, b.err
	}

	return f, nil
}

// builder writes rows and keeps the first error.
type builder struct {
	f           *excelize.File
	moneyStyle  int
	headerStyle int
	err         error
}

func (b *builder) row(sheet string, rowIndex int, values ...interface{}) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		b.err = err
		return
	}
	if err := b.f.SetSheetRow(sheet, cell, &values); err != nil {
		b.err = fmt.Errorf("failed to write %s row %d: %w", sheet, rowIndex, err)
	}
}

func (b *builder) header(sheet string, titles ...interface{}) {
	b.row(sheet, 1, titles...)
	if b.err != nil {
		return
	}
	end, _ := excelize.CoordinatesToCellName(len(titles), 1)
	if err := b.f.SetCellStyle(sheet, "A1", end, b.headerStyle); err != nil {
		b.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

// money applies the money format to one column between firstRow and lastRow.
func (b *builder) money(sheet string, col, firstRow, lastRow int) {
	if b.err != nil || lastRow < firstRow {
		return
	}
	start, _ := excelize.CoordinatesToCellName(col, firstRow)
	end, _ := excelize.CoordinatesToCellName(col, lastRow)
	if err := b.f.SetCellStyle(sheet, start, end, b.moneyStyle); err != nil {
		b.err = fmt.Errorf("failed to style %s money cells: %w", sheet, err)
	}
}

func (b *builder) summary(data report.Data, agg *aggregator.Result) {
	b.header(SheetSummary, "Metric", "Value")
	rows := [][]interface{}{
		{"Run ID", data.RunID},
		{"Generated On", data.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Records Parsed", data.Cleaning.TotalParsed},
		{"Invalid Records Removed", data.Cleaning.Invalid},
		{"Valid Records", data.Cleaning.Valid},
		{"Skipped Empty Lines", data.Cleaning.EmptyLines},
		{"Total Transactions", agg.TransactionCount},
		{"Total Revenue", agg.TotalRevenue.Round(2).InexactFloat64()},
		{"Average Transaction Value", agg.AverageTransactionValue.Round(2).InexactFloat64()},
	}
	if data.Enrichment != nil {
		rows = append(rows, []interface{}{"API Integration State", string(data.Enrichment.State)})
	}
	for i, values := range rows {
		b.row(SheetSummary, i+2, values...)
	}
	b.money(SheetSummary, 2, 9, 10)
	if b.err == nil {
		b.err = b.f.SetColWidth(SheetSummary, "A", "B", 28)
	}
}

func (b *builder) products(data report.Data, agg *aggregator.Result) {
	b.header(SheetProducts, "ProductID", "Name", "Category", "Revenue", "Share %", "Transactions", "Metadata Status")
	ranked := agg.ByProduct.Ranked()
	for i, entry := range ranked {
		name := agg.ProductName(entry.Key)
		category := ""
		status := ""
		if data.Enrichment != nil {
			if e, ok := data.Enrichment.Lookup(entry.Key); ok {
				status = string(e.Status)
				category = e.Metadata.Category
				if e.Status == enricher.StatusOK && e.Metadata.Name != "" {
					name = e.Metadata.Name
				}
			}
		}
		b.row(SheetProducts, i+2,
			report.ProductKey(entry.Key),
			name,
			category,
			entry.Revenue.Round(2).InexactFloat64(),
			entry.Percentage.Round(2).InexactFloat64(),
			entry.Transactions,
			status,
		)
	}
	b.money(SheetProducts, 4, 2, len(ranked)+1)
}

func (b *builder) regions(agg *aggregator.Result) {
	b.header(SheetRegions, "Region", "Revenue", "Share %", "Transactions")
	ranked := agg.ByRegion.Ranked()
	for i, entry := range ranked {
		b.row(SheetRegions, i+2, entry.Key, entry.Revenue.Round(2).InexactFloat64(), entry.Percentage.Round(2).InexactFloat64(), entry.Transactions)
	}
	b.money(SheetRegions, 2, 2, len(ranked)+1)
}

func (b *builder) customers(agg *aggregator.Result) {
	b.header(SheetCustomers, "CustomerID", "Revenue", "Transactions")
	ranked := agg.ByCustomer.Ranked()
	for i, entry := range ranked {
		b.row(SheetCustomers, i+2, entry.Key, entry.Revenue.Round(2).InexactFloat64(), entry.Transactions)
	}
	b.money(SheetCustomers, 2, 2, len(ranked)+1)
}

func (b *builder) invalid(data report.Data) {
	b.header(SheetInvalid, "Line", "Reason", "Message", "Raw")
	for i, record := range data.Invalid {
		b.row(SheetInvalid, i+2, record.LineNumber, string(record.Reason), record.Message, record.Raw)
	}
}

package xlsxreport

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/aggregator"
	"github.com/ginjaninja78/sales-analytics/internal/enricher"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func TestWriteWorkbook(t *testing.T) {
	records := []types.ValidRecord{
		{TransactionID: "T1", ProductID: "P1", ProductName: "MouseWireless", Quantity: 2, UnitPrice: decimal.NewFromInt(1000), CustomerID: "C1", Region: "East"},
	}
	data := report.Data{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Cleaning:    report.CleaningSummary{TotalParsed: 2, Invalid: 1, Valid: 1, EmptyLines: 1},
		Aggregate:   aggregator.Aggregate(records),
		Invalid: []types.InvalidRecord{
			{LineNumber: 2, Raw: "T2|2024-01-02|P2|Keyboard|0|50|C2|West", Reason: types.ReasonNonPositiveQuantity, Message: "quantity must be positive"},
		},
		Enrichment: &enricher.Enrichment{
			State: enricher.StateSuccess,
			Entries: map[string]enricher.Entry{
				"P1": {ProductID: "P1", Status: enricher.StatusOK, Metadata: types.ProductMetadata{Name: "Wireless Mouse", Category: "Peripherals"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(path, data); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer f.Close()

	wantSheets := []string{SheetSummary, SheetProducts, SheetRegions, SheetCustomers, SheetInvalid}
	sheets := f.GetSheetList()
	if len(sheets) != len(wantSheets) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i, name := range wantSheets {
		if sheets[i] != name {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], name)
		}
	}

	revenue, err := f.GetCellValue(SheetSummary, "B9", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if revenue != "2000" {
		t.Errorf("raw revenue = %q", revenue)
	}

	products, err := f.GetRows(SheetProducts)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("product rows = %d", len(products))
	}
	if products[1][0] != "P1" || products[1][1] != "Wireless Mouse" || products[1][2] != "Peripherals" || products[1][6] != "ok" {
		t.Errorf("product row = %v", products[1])
	}

	invalid, err := f.GetRows(SheetInvalid)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(invalid) != 2 || invalid[1][1] != "NonPositiveQuantity" {
		t.Errorf("invalid rows = %v", invalid)
	}
}

func TestBuildEmptyRun(t *testing.T) {
	f, err := Build(report.Data{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetRegions)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty run should only have the header row, got %v", rows)
	}
}

func TestBuildLabelsMissingProductID(t *testing.T) {
	records := []types.ValidRecord{
		{TransactionID: "T1", ProductName: "C", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CustomerID: "C1", Region: "East"},
	}
	f, err := Build(report.Data{Aggregate: aggregator.Aggregate(records)})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	defer f.Close()

	key, err := f.GetCellValue(SheetProducts, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if key != report.NoProductID {
		t.Errorf("product key = %q, want %q", key, report.NoProductID)
	}
}

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"ProductID", "Name", "Category", "Description", "Brand"},
		{"P101", "Laptop", "Electronics", "Business laptop", "Acme"},
		{},
		{"P102", "", "Accessories", "", ""},
	})

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if c.Source != path {
		t.Errorf("Source = %q", c.Source)
	}

	laptop, ok := c.Lookup("P101")
	if !ok {
		t.Fatal("P101 missing")
	}
	if laptop.Name != "Laptop" || laptop.Category != "Electronics" || laptop.Attributes["Brand"] != "Acme" {
		t.Errorf("unexpected P101: %+v", laptop)
	}

	unnamed, _ := c.Lookup("P102")
	if unnamed.Name != "Product P102" {
		t.Errorf("unnamed product Name = %q", unnamed.Name)
	}

	if ids := c.ProductIDs(); len(ids) != 2 || ids[0] != "P101" || ids[1] != "P102" {
		t.Errorf("ProductIDs = %v", ids)
	}
}

func TestLoadCatalogRejectsMissingID(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"ProductID", "Name"},
		{"", "Orphan"},
	})
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a row without a product id")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatal("expected an error for a missing workbook")
	}
}

func TestNewAndLookup(t *testing.T) {
	c := New(types.ProductMetadata{ProductID: "P1", Name: "Mouse"})
	if _, ok := c.Lookup("P2"); ok {
		t.Error("P2 should be absent")
	}
	var nilCatalog *Catalog
	if _, ok := nilCatalog.Lookup("P1"); ok || nilCatalog.Len() != 0 {
		t.Error("nil catalog should be empty")
	}
}

func TestSynthesize(t *testing.T) {
	p, ok := Synthesize("P7")
	if !ok {
		t.Fatal("P7 should synthesize")
	}
	if p.Name != "Product P7" || p.Category == "" {
		t.Errorf("unexpected metadata: %+v", p)
	}
	again, _ := Synthesize("P7")
	if again.Name != p.Name || again.Category != p.Category || again.Description != p.Description {
		t.Error("Synthesize should be deterministic")
	}

	for _, id := range []string{"X1", "P", "p1", "P1a"} {
		if _, ok := Synthesize(id); ok {
			t.Errorf("Synthesize(%q) should fail", id)
		}
	}
}

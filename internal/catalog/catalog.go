// =============================================================================
// Sales Analytics - XLSX Product Catalog
// =============================================================================
//
// This module loads a product catalog from an XLSX workbook. The catalog backs
// the local mock product API, so enrichment can be exercised offline against
// realistic data.
//
// CATALOG STRUCTURE (Expected Columns):
//
//   | Column A  | Column B     | Column C    | Column D         | Column E...      |
//   |-----------|--------------|-------------|------------------|------------------|
//   | ProductID | Name         | Category    | Description      | extra attributes |
//   | P101      | Laptop       | Electronics | 15" business ... | Brand: Acme      |
//
// Row 1 is the header row. Extra columns become attributes keyed by their
// header text. Column positions are configurable via Columns.
//
// =============================================================================

package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// Columns defines the 0-indexed column positions in the catalog sheet.
// A negative position means the column is absent.
type Columns struct {
	ProductID   int
	Name        int
	Category    int
	Description int

	// HeaderRow is the 0-indexed row holding column titles.
	HeaderRow int

	// DataStartRow is the 0-indexed first data row.
	DataStartRow int
}

// DefaultColumns returns the standard catalog layout.
func DefaultColumns() Columns {
	return Columns{
		ProductID:    0,
		Name:         1,
		Category:     2,
		Description:  3,
		HeaderRow:    0,
		DataStartRow: 1,
	}
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is an in-memory product table.
type Catalog struct {
	// Source is the workbook path, empty for built catalogs.
	Source string

	products map[string]types.ProductMetadata
	order    []string
}

// New builds a catalog from the given products.
func New(products ...types.ProductMetadata) *Catalog {
	c := &Catalog{products: make(map[string]types.ProductMetadata)}
	for _, p := range products {
		c.add(p)
	}
	return c
}

func (c *Catalog) add(p types.ProductMetadata) {
	if _, exists := c.products[p.ProductID]; !exists {
		c.order = append(c.order, p.ProductID)
	}
	c.products[p.ProductID] = p
}

// Lookup returns the catalog entry for a product id.
func (c *Catalog) Lookup(productID string) (types.ProductMetadata, bool) {
	if c == nil {
		return types.ProductMetadata{}, false
	}
	p, ok := c.products[productID]
	return p, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// ProductIDs returns the ids in workbook order.
func (c *Catalog) ProductIDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a catalog workbook using the default column layout.
func Load(path string) (*Catalog, error) {
	return LoadWithColumns(path, DefaultColumns())
}

// LoadWithColumns reads the first sheet of a catalog workbook.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - columns: The column layout.
//
// RETURNS:
//   - The loaded Catalog.
//   - An error if the file cannot be opened or a row has no product id but
//     other content.
func LoadWithColumns(path string, columns Columns) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("catalog file has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var headers []string
	if columns.HeaderRow >= 0 && columns.HeaderRow < len(rows) {
		headers = rows[columns.HeaderRow]
	}

	c := New()
	c.Source = path

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		product, err := parseRow(row, headers, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+1, err)
		}
		c.add(product)
	}

	return c, nil
}

func parseRow(row, headers []string, columns Columns) (types.ProductMetadata, error) {
	cell := func(index int) string {
		if index >= 0 && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	product := types.ProductMetadata{
		ProductID:   cell(columns.ProductID),
		Name:        cell(columns.Name),
		Category:    cell(columns.Category),
		Description: cell(columns.Description),
	}
	if product.ProductID == "" {
		return product, fmt.Errorf("missing product id")
	}
	if product.Name == "" {
		product.Name = "Product " + product.ProductID
	}

	known := map[int]bool{
		columns.ProductID:   true,
		columns.Name:        true,
		columns.Category:    true,
		columns.Description: true,
	}
	for i, value := range row {
		value = strings.TrimSpace(value)
		if known[i] || value == "" {
			continue
		}
		key := fmt.Sprintf("Column_%d", i+1)
		if i < len(headers) && strings.TrimSpace(headers[i]) != "" {
			key = strings.TrimSpace(headers[i])
		}
		if product.Attributes == nil {
			product.Attributes = make(map[string]string)
		}
		product.Attributes[key] = value
	}

	return product, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// SYNTHESIZED ENTRIES
// =============================================================================

var productIDPattern = regexp.MustCompile(`^P(\d+)$`)

var categories = []string{"Electronics", "Accessories", "Office", "Peripherals", "Storage"}

// Synthesize returns deterministic metadata for ids shaped like "P<digits>".
// Other ids are not products and report false.
func Synthesize(productID string) (types.ProductMetadata, bool) {
	m := productIDPattern.FindStringSubmatch(productID)
	if m == nil {
		return types.ProductMetadata{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		n = len(m[1])
	}

	return types.ProductMetadata{
		ProductID:   productID,
		Name:        "Product " + productID,
		Category:    categories[n%len(categories)],
		Description: "Product information for " + productID,
	}, true
}

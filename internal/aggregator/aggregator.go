// =============================================================================
// Sales Analytics - Aggregation Engine
// =============================================================================
//
// This module folds the valid records into sales statistics:
//   - total revenue, transaction count, average transaction value
//   - revenue grouped by product, region, and customer
//   - the top performer of each grouping
//
// ARITHMETIC:
//   All money is shopspring/decimal, so sums over many transactions carry no
//   floating-point drift. Rounding to cents happens only at presentation.
//
// ORDERING:
//   Each grouping remembers the order in which keys were first seen. Rankings
//   sort by descending revenue; equal revenue keeps first-seen order, which is
//   also the tie-break for the top performer.
//
// =============================================================================

package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result holds the aggregate statistics for one run.
// It is built once by Aggregate and not modified afterwards.
type Result struct {
	TotalRevenue            decimal.Decimal
	TransactionCount        int
	AverageTransactionValue decimal.Decimal

	ByProduct  *Group
	ByRegion   *Group
	ByCustomer *Group

	// TopProduct, TopRegion and TopCustomer are nil when there are no records.
	TopProduct  *Entry
	TopRegion   *Entry
	TopCustomer *Entry

	// ProductNames maps ProductID to the first cleaned name seen for it.
	ProductNames map[string]string
}

// ProductName returns the display name recorded for a product id.
func (r *Result) ProductName(productID string) string {
	return r.ProductNames[productID]
}

// Entry is one key of a grouping with its summed revenue.
type Entry struct {
	Key          string
	Revenue      decimal.Decimal
	Transactions int

	// Percentage is Revenue as a share of the grouping total, 0-100.
	Percentage decimal.Decimal
}

// =============================================================================
// GROUPING
// =============================================================================

// Group sums revenue per key and remembers first-seen key order.
type Group struct {
	order  []string
	totals map[string]decimal.Decimal
	counts map[string]int
	total  decimal.Decimal
}

func newGroup() *Group {
	return &Group{
		totals: make(map[string]decimal.Decimal),
		counts: make(map[string]int),
	}
}

func (g *Group) add(key string, amount decimal.Decimal) {
	current, seen := g.totals[key]
	if !seen {
		g.order = append(g.order, key)
		current = decimal.Zero
	}
	g.totals[key] = current.Add(amount)
	g.counts[key]++
	g.total = g.total.Add(amount)
}

// Len returns the number of distinct keys.
func (g *Group) Len() int {
	return len(g.order)
}

// Keys returns the keys in first-seen order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys
}

// Revenue returns the summed revenue for a key, or zero if it was never seen.
func (g *Group) Revenue(key string) decimal.Decimal {
	if v, ok := g.totals[key]; ok {
		return v
	}
	return decimal.Zero
}

// Totals returns a copy of the key -> revenue mapping.
func (g *Group) Totals() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(g.totals))
	for k, v := range g.totals {
		totals[k] = v
	}
	return totals
}

// Ranked returns every key by descending revenue, ties in first-seen order.
func (g *Group) Ranked() []Entry {
	entries := make([]Entry, len(g.order))
	for i, key := range g.order {
		entries[i] = g.entry(key)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Revenue.GreaterThan(entries[j].Revenue)
	})

	return entries
}

// Top returns the key with the highest revenue, or nil for an empty group.
// Ties go to the key seen first.
func (g *Group) Top() *Entry {
	if len(g.order) == 0 {
		return nil
	}

	best := g.order[0]
	for _, key := range g.order[1:] {
		if g.totals[key].GreaterThan(g.totals[best]) {
			best = key
		}
	}

	entry := g.entry(best)
	return &entry
}

func (g *Group) entry(key string) Entry {
	revenue := g.totals[key]
	percentage := decimal.Zero
	if g.total.IsPositive() {
		percentage = revenue.Mul(hundred).Div(g.total)
	}
	return Entry{
		Key:          key,
		Revenue:      revenue,
		Transactions: g.counts[key],
		Percentage:   percentage,
	}
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate computes the statistics for a set of valid records.
// An empty set yields zero totals and nil top performers.
func Aggregate(records []types.ValidRecord) *Result {
	result := &Result{
		TotalRevenue:            decimal.Zero,
		AverageTransactionValue: decimal.Zero,
		ByProduct:               newGroup(),
		ByRegion:                newGroup(),
		ByCustomer:              newGroup(),
		ProductNames:            make(map[string]string),
	}

	for _, record := range records {
		revenue := record.LineRevenue()

		result.TotalRevenue = result.TotalRevenue.Add(revenue)
		result.ByProduct.add(record.ProductID, revenue)
		result.ByRegion.add(record.Region, revenue)
		result.ByCustomer.add(record.CustomerID, revenue)

		if _, ok := result.ProductNames[record.ProductID]; !ok {
			result.ProductNames[record.ProductID] = record.ProductName
		}
	}

	result.TransactionCount = len(records)
	if result.TransactionCount > 0 {
		result.AverageTransactionValue = result.TotalRevenue.Div(decimal.NewFromInt(int64(result.TransactionCount)))
	}

	result.TopProduct = result.ByProduct.Top()
	result.TopRegion = result.ByRegion.Top()
	result.TopCustomer = result.ByCustomer.Top()

	return result
}

// DistinctProductIDs returns the product ids in the records, sorted ascending.
func DistinctProductIDs(records []types.ValidRecord) []string {
	seen := make(map[string]bool)
	var ids []string

	for _, record := range records {
		if record.ProductID == "" || seen[record.ProductID] {
			continue
		}
		seen[record.ProductID] = true
		ids = append(ids, record.ProductID)
	}

	sort.Strings(ids)
	return ids
}

// =============================================================================
// Sales Analytics - Shared Types
// =============================================================================
//
// This package contains the record types handed from one pipeline stage to the
// next. Keeping them here avoids import cycles between:
//   - recordparser
//   - cleaning
//   - validation
//   - aggregator
//   - enricher
//
// RECORD LIFECYCLE:
//   raw line -> CandidateRecord -> CleanRecord -> ValidRecord | InvalidRecord
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// FIELD LAYOUT
// =============================================================================

// FieldCount is the number of pipe-delimited fields in a sales line.
const FieldCount = 8

// Field names in their positional order within a line.
const (
	FieldTransactionID = "TransactionID"
	FieldDate          = "Date"
	FieldProductID     = "ProductID"
	FieldProductName   = "ProductName"
	FieldQuantity      = "Quantity"
	FieldUnitPrice     = "UnitPrice"
	FieldCustomerID    = "CustomerID"
	FieldRegion        = "Region"
)

// FieldOrder lists the field names in the order they appear on a line.
var FieldOrder = [FieldCount]string{
	FieldTransactionID,
	FieldDate,
	FieldProductID,
	FieldProductName,
	FieldQuantity,
	FieldUnitPrice,
	FieldCustomerID,
	FieldRegion,
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// CandidateRecord is a parsed but not yet cleaned line.
// All fields are the whitespace-trimmed text as it appeared in the file.
type CandidateRecord struct {
	TransactionID string
	Date          string
	ProductID     string
	ProductName   string
	Quantity      string
	UnitPrice     string
	CustomerID    string
	Region        string

	// LineNumber is the 1-indexed line in the input file.
	LineNumber int

	// Raw is the decoded line text, kept for invalid-record reporting.
	Raw string
}

// CleanRecord is a CandidateRecord after comma stripping and numeric coercion.
//
// A numeric field that could not be coerced holds zero, so it fails the
// positivity checks in the validator instead of raising an error here.
type CleanRecord struct {
	TransactionID string
	Date          string
	ProductID     string
	ProductName   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	CustomerID    string
	Region        string

	// QuantityText and UnitPriceText hold the original field text so that
	// rejection messages can show what was in the file.
	QuantityText  string
	UnitPriceText string

	LineNumber int
	Raw        string
}

// ValidRecord is a record that passed every validation rule.
// Values of this type are only produced by the validation package.
type ValidRecord struct {
	TransactionID string
	Date          string
	ProductID     string
	ProductName   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	CustomerID    string
	Region        string
	LineNumber    int
}

// LineRevenue returns Quantity x UnitPrice.
func (r ValidRecord) LineRevenue() decimal.Decimal {
	return decimal.NewFromInt(r.Quantity).Mul(r.UnitPrice)
}

// =============================================================================
// REJECTION TYPES
// =============================================================================

// Reason classifies why a line did not become a ValidRecord.
type Reason string

const (
	ReasonMissingCustomerOrRegion Reason = "MissingCustomerOrRegion"
	ReasonNonPositiveQuantity     Reason = "NonPositiveQuantity"
	ReasonNonPositiveUnitPrice    Reason = "NonPositiveUnitPrice"
	ReasonBadTransactionPrefix    Reason = "BadTransactionPrefix"
	ReasonParseError              Reason = "ParseError"

	// ReasonEmptyLine is tallied separately and never appears on an InvalidRecord.
	ReasonEmptyLine Reason = "EmptyLine"
)

// RejectionReasons lists the reasons an InvalidRecord can carry, in the fixed
// order used for reporting.
var RejectionReasons = []Reason{
	ReasonMissingCustomerOrRegion,
	ReasonNonPositiveQuantity,
	ReasonNonPositiveUnitPrice,
	ReasonBadTransactionPrefix,
	ReasonParseError,
}

// Description returns a human-readable label for the reason.
func (r Reason) Description() string {
	switch r {
	case ReasonMissingCustomerOrRegion:
		return "Missing CustomerID or Region"
	case ReasonNonPositiveQuantity:
		return "Quantity less than or equal to 0"
	case ReasonNonPositiveUnitPrice:
		return "UnitPrice less than or equal to 0"
	case ReasonBadTransactionPrefix:
		return "TransactionID does not start with 'T'"
	case ReasonParseError:
		return "Malformed line"
	case ReasonEmptyLine:
		return "Empty line"
	default:
		return string(r)
	}
}

// InvalidRecord is a rejected line together with the first reason it failed.
type InvalidRecord struct {
	LineNumber int
	Raw        string
	Reason     Reason
	Message    string
}

// =============================================================================
// PRODUCT METADATA
// =============================================================================

// ProductMetadata is descriptive product information from the metadata provider.
type ProductMetadata struct {
	ProductID   string            `json:"product_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category,omitempty"`
	Description string            `json:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// =============================================================================
// Sales Analytics - Validation Engine
// =============================================================================
//
// This module decides which cleaned records are kept. A record is valid only
// if it passes every rule; otherwise it is rejected with the FIRST rule it
// fails, evaluated in this fixed order:
//
//   1. MissingCustomerOrRegion - CustomerID or Region is blank
//   2. NonPositiveQuantity     - Quantity <= 0
//   3. NonPositiveUnitPrice    - UnitPrice <= 0
//   4. BadTransactionPrefix    - TransactionID does not start with 'T'
//
// ERROR HANDLING:
//   - Rejections are collected, not thrown
//   - Each rejection carries the line number, field, and offending value
//   - Validation has no side effects
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single rejected record.
type ValidationError struct {
	// Reason is the rule that was violated.
	Reason types.Reason

	// Field is the name of the field that failed validation.
	Field string

	// Value is the field text as it appeared in the file.
	Value string

	// Message is a human-readable error message.
	Message string

	// LineNumber is the original line number (for error reporting).
	LineNumber int

	// Raw is the full line text.
	Raw string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Line %d, Field '%s': %s (value: '%s')",
		e.Reason,
		e.LineNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// InvalidRecord converts the error into the record kept for reporting.
func (e *ValidationError) InvalidRecord() types.InvalidRecord {
	return types.InvalidRecord{
		LineNumber: e.LineNumber,
		Raw:        e.Raw,
		Reason:     e.Reason,
		Message:    e.Message,
	}
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validating a batch.
type ValidationResult struct {
	// Valid holds the records that passed every rule, in input order.
	Valid []types.ValidRecord

	// Errors holds one rejection per failed record, in input order.
	Errors []*ValidationError

	// RecordsValidated is the total number of records examined.
	RecordsValidated int
}

// Invalid returns the rejections as InvalidRecords.
func (r *ValidationResult) Invalid() []types.InvalidRecord {
	invalid := make([]types.InvalidRecord, len(r.Errors))
	for i, err := range r.Errors {
		invalid[i] = err.InvalidRecord()
	}
	return invalid
}

// =============================================================================
// RULES
// =============================================================================

// rule is one validation predicate. check returns a non-empty message when the
// record fails.
type rule struct {
	reason types.Reason
	field  func(r types.CleanRecord) (name, value string)
	check  func(r types.CleanRecord) string
}

// rules are evaluated in order; the first failure wins.
var rules = []rule{
	{
		reason: types.ReasonMissingCustomerOrRegion,
		field: func(r types.CleanRecord) (string, string) {
			if isBlank(r.CustomerID) {
				return types.FieldCustomerID, r.CustomerID
			}
			return types.FieldRegion, r.Region
		},
		check: func(r types.CleanRecord) string {
			switch {
			case isBlank(r.CustomerID):
				return "Missing CustomerID"
			case isBlank(r.Region):
				return "Missing Region"
			}
			return ""
		},
	},
	{
		reason: types.ReasonNonPositiveQuantity,
		field: func(r types.CleanRecord) (string, string) {
			return types.FieldQuantity, r.QuantityText
		},
		check: func(r types.CleanRecord) string {
			if r.Quantity <= 0 {
				return fmt.Sprintf("Quantity (%d) is less than or equal to 0", r.Quantity)
			}
			return ""
		},
	},
	{
		reason: types.ReasonNonPositiveUnitPrice,
		field: func(r types.CleanRecord) (string, string) {
			return types.FieldUnitPrice, r.UnitPriceText
		},
		check: func(r types.CleanRecord) string {
			if !r.UnitPrice.IsPositive() {
				return fmt.Sprintf("UnitPrice (%s) is less than or equal to 0", r.UnitPrice.String())
			}
			return ""
		},
	},
	{
		reason: types.ReasonBadTransactionPrefix,
		field: func(r types.CleanRecord) (string, string) {
			return types.FieldTransactionID, r.TransactionID
		},
		check: func(r types.CleanRecord) string {
			if !strings.HasPrefix(r.TransactionID, "T") {
				return fmt.Sprintf("TransactionID '%s' does not start with 'T'", r.TransactionID)
			}
			return ""
		},
	},
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// Validate checks a single record.
//
// RETURNS:
//   - The ValidRecord and nil when every rule passes.
//   - A zero ValidRecord and the first failing rule otherwise.
func Validate(record types.CleanRecord) (types.ValidRecord, *ValidationError) {
	for _, rule := range rules {
		message := rule.check(record)
		if message == "" {
			continue
		}

		field, value := rule.field(record)
		return types.ValidRecord{}, &ValidationError{
			Reason:     rule.reason,
			Field:      field,
			Value:      value,
			Message:    message,
			LineNumber: record.LineNumber,
			Raw:        record.Raw,
		}
	}

	return types.ValidRecord{
		TransactionID: record.TransactionID,
		Date:          record.Date,
		ProductID:     record.ProductID,
		ProductName:   record.ProductName,
		Quantity:      record.Quantity,
		UnitPrice:     record.UnitPrice,
		CustomerID:    record.CustomerID,
		Region:        record.Region,
		LineNumber:    record.LineNumber,
	}, nil
}

// ValidateAll validates every record and splits them into valid and rejected.
func ValidateAll(records []types.CleanRecord) *ValidationResult {
	result := &ValidationResult{
		Valid:            make([]types.ValidRecord, 0, len(records)),
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	for _, record := range records {
		valid, err := Validate(record)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Valid = append(result.Valid, valid)
	}

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

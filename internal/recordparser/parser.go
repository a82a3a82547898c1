// =============================================================================
// Sales Analytics - Record Parser Module
// =============================================================================
//
// This module turns the raw sales data file into candidate records. Each line
// is split on the pipe delimiter into exactly eight positional fields:
//
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// LINE CLASSIFICATION:
//   - Empty: whitespace only, or every field blank. Tallied, never a record.
//   - Header: the first non-empty line when its first field is "TransactionID".
//   - Parse error: wrong field count or undecodable bytes. Recorded, then
//     parsing moves on to the next line.
//   - Candidate: anything else.
//
// A single malformed line never stops the run.
//
// =============================================================================

package recordparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Delimiter separates fields on a sales line.
const Delimiter = "|"

// byteOrderMark is stripped from the start of the first line.
const byteOrderMark = "\ufeff"

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyLine is returned by ParseLine for blank lines.
var ErrEmptyLine = errors.New("empty line")

// ParseError describes a line that could not be turned into a candidate record.
type ParseError struct {
	// LineNumber is the 1-indexed line in the input.
	LineNumber int

	// Fields is the number of fields the line split into (0 if undecodable).
	Fields int

	// Cause is set when decoding failed.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("line %d: %v", e.LineNumber, e.Cause)
	}
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.LineNumber, types.FieldCount, e.Fields)
}

// Unwrap returns the decoding error, if any.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// PARSE RESULT
// =============================================================================

// Result is the outcome of parsing a whole input.
type Result struct {
	// Candidates are the lines that split into eight fields, in file order.
	Candidates []types.CandidateRecord

	// Failures are the lines rejected with ParseError, in file order.
	Failures []types.InvalidRecord

	// EmptyLines counts skipped blank lines.
	EmptyLines int

	// HeaderSkipped is true when the first non-empty line was a header.
	HeaderSkipped bool

	// TotalLines is the number of lines read, including blanks and the header.
	TotalLines int
}

// Parsed returns the number of non-empty, non-header lines.
func (r *Result) Parsed() int {
	return len(r.Candidates) + len(r.Failures)
}

// =============================================================================
// PARSER
// =============================================================================

// Parser reads sales lines from a byte stream.
type Parser struct {
	decoder *Decoder
}

// New creates a Parser that uses the given decoder for non-UTF-8 lines.
func New(decoder *Decoder) *Parser {
	return &Parser{decoder: decoder}
}

// Parse reads every line from r and classifies it.
//
// PARAMETERS:
//   - r: The raw input stream.
//
// RETURNS:
//   - A Result with candidates, parse failures, and line tallies.
//   - An error only if reading from r fails.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	reader := bufio.NewReader(r)
	result := &Result{}
	sawContent := false

	for lineNumber := 1; ; lineNumber++ {
		raw, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNumber, readErr)
		}
		if len(raw) == 0 && readErr == io.EOF {
			break
		}

		result.TotalLines++
		raw = bytes.TrimRight(raw, "\r\n")

		text, err := p.decoder.Decode(raw)
		if err != nil {
			sawContent = true
			result.Failures = append(result.Failures, types.InvalidRecord{
				LineNumber: lineNumber,
				Raw:        strings.ToValidUTF8(string(raw), "\uFFFD"),
				Reason:     types.ReasonParseError,
				Message:    (&ParseError{LineNumber: lineNumber, Cause: err}).Error(),
			})
		} else {
			if !sawContent {
				text = strings.TrimPrefix(text, byteOrderMark)
			}

			switch {
			case isLineEmpty(text):
				result.EmptyLines++
			case !sawContent && isHeader(text):
				sawContent = true
				result.HeaderSkipped = true
			default:
				sawContent = true
				record, err := ParseLine(lineNumber, text)
				if err != nil {
					result.Failures = append(result.Failures, types.InvalidRecord{
						LineNumber: lineNumber,
						Raw:        text,
						Reason:     types.ReasonParseError,
						Message:    err.Error(),
					})
				} else {
					result.Candidates = append(result.Candidates, record)
				}
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	return result, nil
}

// ParseLine splits one decoded line into a CandidateRecord.
//
// RETURNS:
//   - ErrEmptyLine for blank lines.
//   - A *ParseError when the line does not have exactly eight fields.
func ParseLine(lineNumber int, line string) (types.CandidateRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	if isLineEmpty(line) {
		return types.CandidateRecord{}, ErrEmptyLine
	}

	fields := strings.Split(line, Delimiter)
	if len(fields) != types.FieldCount {
		return types.CandidateRecord{}, &ParseError{LineNumber: lineNumber, Fields: len(fields)}
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	return types.CandidateRecord{
		TransactionID: fields[0],
		Date:          fields[1],
		ProductID:     fields[2],
		ProductName:   fields[3],
		Quantity:      fields[4],
		UnitPrice:     fields[5],
		CustomerID:    fields[6],
		Region:        fields[7],
		LineNumber:    lineNumber,
		Raw:           line,
	}, nil
}

// isLineEmpty checks if a line is blank or contains only blank fields.
func isLineEmpty(line string) bool {
	for _, cell := range strings.Split(line, Delimiter) {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isHeader checks if a line is the column header row.
func isHeader(line string) bool {
	first, _, _ := strings.Cut(line, Delimiter)
	return strings.EqualFold(strings.TrimSpace(first), types.FieldTransactionID)
}

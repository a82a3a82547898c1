// =============================================================================
// Sales Analytics - Pipeline Module
// =============================================================================
//
// This module orchestrates one analysis run, from reading the sales file to
// writing the report.
//
// PIPELINE:
//   1. Read the input file (the only fatal failure)
//   2. Parse lines into candidate records
//   3. Clean and validate the candidates
//   4. Enrich the distinct product ids with metadata
//   5. Aggregate the valid records
//   6. Render and write the text report
//   7. Write the workbook and the invalid-record log (best effort)
//
// Every failure after step 1 is recorded in the result or logged as a
// warning; a run always produces a report for what could be processed.
//
// =============================================================================

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/sales-analytics/internal/aggregator"
	"github.com/ginjaninja78/sales-analytics/internal/cleaning"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/enricher"
	"github.com/ginjaninja78/sales-analytics/internal/recordparser"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/internal/xlsxreport"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	RunID     string
	StartedAt time.Time

	// Parse holds the line tallies of the parser.
	Parse *recordparser.Result

	// Valid holds the records that passed validation, in file order.
	Valid []types.ValidRecord

	// Invalid holds every rejected line, parse failures included, in file order.
	Invalid []types.InvalidRecord

	Aggregate  *aggregator.Result
	Enrichment *enricher.Enrichment

	// Report is the rendered text report.
	Report string

	// Output paths. Empty when the output was disabled or not written.
	ReportFile     string
	WorkbookFile   string
	InvalidLogFile string

	Duration time.Duration
}

// Cleaning returns the record counts for the report.
func (r *Result) Cleaning() report.CleaningSummary {
	summary := report.CleaningSummary{
		Invalid: len(r.Invalid),
		Valid:   len(r.Valid),
	}
	if r.Parse != nil {
		summary.TotalParsed = r.Parse.Parsed()
		summary.EmptyLines = r.Parse.EmptyLines
	}
	return summary
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs the analysis described by a configuration.
type Pipeline struct {
	config   *config.Config
	provider enricher.Provider
	logger   Logger

	// console receives the step narration and the echoed report.
	console io.Writer

	now      func() time.Time
	newRunID func() string
}

// New creates a Pipeline for the given configuration.
//
// The product provider is an HTTP client for api.base_url when the API is
// enabled, and nil (enrichment disabled) otherwise.
func New(cfg *config.Config) *Pipeline {
	p := &Pipeline{
		config:   cfg,
		logger:   NewLogger(os.Stderr, cfg.LogLevel),
		console:  os.Stdout,
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
	}

	if cfg.API.IsEnabled() {
		client := &http.Client{Timeout: cfg.API.Timeout}
		p.provider = enricher.NewHTTPProvider(cfg.API.BaseURL, client)
	}

	return p
}

// SetLogger replaces the logger.
func (p *Pipeline) SetLogger(logger Logger) {
	p.logger = logger
}

// SetConsole replaces the console writer.
func (p *Pipeline) SetConsole(w io.Writer) {
	p.console = w
}

// SetProvider replaces the product provider. nil disables enrichment.
func (p *Pipeline) SetProvider(provider enricher.Provider) {
	p.provider = provider
}

// SetClock replaces the time source used for timestamps.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes one analysis run.
//
// RETURNS:
//   - The Result of the run. It is non-nil whenever the input could be read,
//     even if writing the report then failed.
//   - An error wrapping utils.ErrInputUnreadable if the input cannot be read,
//     or an error if the report file cannot be written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.config
	result := &Result{
		RunID:     p.newRunID(),
		StartedAt: p.now(),
	}

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	p.step(1, "Reading sales data file...")
	p.logger.Info("Run %s reading %s", result.RunID, cfg.InputFile)

	data, err := utils.ReadInputFile(cfg.InputFile)
	if err != nil {
		p.logger.Error("Could not read input: %v", err)
		return nil, err
	}

	// =========================================================================
	// STEP 2: PARSE, CLEAN AND VALIDATE
	// =========================================================================

	p.step(2, "Cleaning and validating data...")

	decoder, err := recordparser.NewDecoder(cfg.EncodingFallback)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	parsed, err := recordparser.New(decoder).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	result.Parse = parsed
	p.logger.Debug("Read %d lines, %d candidates, %d parse failures, %d empty (fallback encoding %s)", parsed.TotalLines, len(parsed.Candidates), len(parsed.Failures), parsed.EmptyLines, decoder.Name())

	validated := validation.ValidateAll(cleaning.CleanAll(parsed.Candidates))
	for _, ve := range validated.Errors {
		p.logger.Debug("Rejected: %s", ve.Error())
	}

	result.Valid = validated.Valid
	result.Invalid = mergeInvalid(parsed.Failures, validated.Invalid())

	p.printf("Total records parsed: %d\n", parsed.Parsed())
	p.printf("Invalid records removed: %d\n", len(result.Invalid))
	p.printf("Valid records after cleaning: %d\n\n", len(result.Valid))

	// =========================================================================
	// STEP 3: ENRICH PRODUCTS
	// =========================================================================

	p.step(3, "Fetching product information from API...")

	productIDs := aggregator.DistinctProductIDs(result.Valid)
	p.printf("Found %d unique products.\n", len(productIDs))

	e := enricher.New(p.provider, enricher.Options{
		Timeout:     cfg.API.Timeout,
		MaxProducts: cfg.API.MaxProducts,
	})
	result.Enrichment = e.Enrich(ctx, productIDs)

	for _, id := range result.Enrichment.ProductIDs {
		if entry := result.Enrichment.Entries[id]; entry.Err != nil {
			p.logger.Debug("Product %s %s: %v", id, entry.Status, entry.Err)
		}
	}
	p.printf("Product API status: %s\n\n", result.Enrichment.State.Description())

	// =========================================================================
	// STEP 4: AGGREGATE
	// =========================================================================

	p.step(4, "Calculating sales statistics...")
	result.Aggregate = aggregator.Aggregate(result.Valid)
	p.printf("Statistics calculated successfully.\n\n")

	// =========================================================================
	// STEP 5: GENERATE REPORT
	// =========================================================================

	p.step(5, "Generating comprehensive report...")

	reportData := report.Data{
		RunID:       result.RunID,
		GeneratedAt: result.StartedAt,
		Cleaning:    result.Cleaning(),
		Aggregate:   result.Aggregate,
		Invalid:     result.Invalid,
		Enrichment:  result.Enrichment,
	}
	options := report.DefaultOptions()
	options.TopProducts = cfg.TopProductsLimit()
	result.Report = report.GenerateWithOptions(reportData, options)

	// =========================================================================
	// STEP 6: WRITE OUTPUTS
	// =========================================================================

	p.step(6, "Saving report to file...")

	if err := utils.WriteReport(cfg.OutputFile, result.Report); err != nil {
		p.logger.Error("Could not save report: %v", err)
		result.Duration = time.Since(result.StartedAt)
		return result, fmt.Errorf("failed to write report: %w", err)
	}
	result.ReportFile = cfg.OutputFile
	p.printf("Report saved successfully to: %s\n", cfg.OutputFile)

	if !config.Disabled(cfg.XLSXReportFile) {
		if err := p.writeWorkbook(cfg.XLSXReportFile, reportData); err != nil {
			p.logger.Warn("Could not save workbook: %v", err)
		} else {
			result.WorkbookFile = cfg.XLSXReportFile
			p.logger.Info("Wrote workbook to: %s", cfg.XLSXReportFile)
		}
	}

	if !config.Disabled(cfg.InvalidLogDir) {
		path, err := utils.WriteInvalidLog(invalidLogEntries(result.Invalid), cfg.InvalidLogDir, result.RunID, result.StartedAt)
		if err != nil {
			p.logger.Warn("Could not save invalid record log: %v", err)
		} else if path != "" {
			result.InvalidLogFile = path
			p.logger.Info("Wrote invalid record log to: %s", path)
		}
	}

	p.printf("\n%s\n", result.Report)

	result.Duration = time.Since(result.StartedAt)
	p.logger.Info("Run %s finished in %s", result.RunID, result.Duration)

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (p *Pipeline) writeWorkbook(path string, data report.Data) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	return xlsxreport.Write(path, data)
}

func (p *Pipeline) step(n int, msg string) {
	p.printf("Step %d: %s\n", n, msg)
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	if p.console == nil {
		return
	}
	fmt.Fprintf(p.console, format, args...)
}

// mergeInvalid combines parse failures and validation rejections in line order.
func mergeInvalid(parseFailures, rejected []types.InvalidRecord) []types.InvalidRecord {
	merged := make([]types.InvalidRecord, 0, len(parseFailures)+len(rejected))
	merged = append(merged, parseFailures...)
	merged = append(merged, rejected...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LineNumber < merged[j].LineNumber
	})
	return merged
}

func invalidLogEntries(invalid []types.InvalidRecord) []utils.InvalidLogEntry {
	entries := make([]utils.InvalidLogEntry, len(invalid))
	for i, record := range invalid {
		entries[i] = utils.InvalidLogEntry{
			LineNumber: record.LineNumber,
			Reason:     string(record.Reason),
			Message:    record.Message,
			Raw:        record.Raw,
		}
	}
	return entries
}

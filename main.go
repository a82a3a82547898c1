// =============================================================================
// Sales Analytics - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sales Analytics CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   sales-analytics            - Analyze the configured sales data file
//   sales-analytics process    - Analyze with command-line overrides
//   sales-analytics mock-api   - Serve product metadata locally
//   sales-analytics version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, cleaning, validation, aggregation, reporting
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-analytics/cmd"
)

func main() {
	cmd.Execute()
}

// =============================================================================
// Sales Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Run without a
// subcommand, it performs one analysis run with the configured paths, so the
// tool works with no arguments at all.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sales-analytics)      run the analysis
//   ├── processCmd (process)       run the analysis with path overrides
//   ├── mockAPICmd (mock-api)      serve product metadata locally
//   └── versionCmd (version)
//
// EXIT CODES:
//   0  the report was produced, even with zero valid records
//   1  configuration error, unreadable input, or the report could not be saved
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/pipeline"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// A missing file means defaults apply.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sales-analytics",
	Short: "Sales Analytics - Clean, validate and summarize sales transactions",
	Long: `Sales Analytics reads a pipe-delimited sales transaction file, cleans and
validates every record, looks up product metadata from a product API, and
writes a plain-text sales report.

Key Features:
  - Tolerant parsing: malformed lines are counted, never fatal
  - Decimal-safe revenue aggregation by product, region and customer
  - Product enrichment with placeholder fallback when the API is down
  - Text report, XLSX workbook and invalid-record log

Example Usage:
  sales-analytics                          # Analyze data/sales_data.txt
  sales-analytics --config ./my.yaml       # Use a custom configuration file
  sales-analytics process --no-api         # Skip product enrichment
  sales-analytics mock-api                 # Serve product metadata on :8081`,

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runAnalysis(cmd.Context(), cfg)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (defaults apply if it does not exist)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// runAnalysis performs one pipeline run and prints the closing banner.
func runAnalysis(ctx context.Context, cfg *config.Config) error {
	fmt.Println("Sales Analytics System")
	fmt.Println(rule)
	fmt.Println()

	if _, err := pipeline.New(cfg).Run(ctx); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("Sales Analytics System completed successfully!")
	fmt.Println(rule)
	return nil
}

const rule = "================================================================================"

// =============================================================================
// Sales Analytics - Process Command
// =============================================================================
//
// This file defines the 'process' command. It runs the same analysis as the
// root command but lets individual settings be overridden from the command
// line without editing config.yaml.
//
// COMMAND USAGE:
//   sales-analytics process [flags]
//
// FLAGS:
//   --input    : Sales data file to read
//   --output   : Text report to write
//   --xlsx     : Workbook to write ("-" disables it)
//   --no-api   : Skip product enrichment; every product gets placeholder data
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile  string
	outputFile string
	xlsxFile   string
	noAPI      bool
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Analyze a sales data file and write the report",
	Long: `The process command reads the sales data file, cleans and validates each
record, enriches the products, and writes the sales report.

Malformed and invalid lines never stop the run. They are counted in the report
and listed in the invalid-record log in the output directory. The command only
fails when the input file cannot be read or the report cannot be saved.`,

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("input") {
			cfg.InputFile = inputFile
		}
		if flags.Changed("output") {
			cfg.OutputFile = outputFile
		}
		if flags.Changed("xlsx") {
			cfg.XLSXReportFile = xlsxFile
		}
		if noAPI {
			disabled := false
			cfg.API.Enabled = &disabled
		}

		return runAnalysis(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&inputFile, "input", "", "Sales data file to read (overrides input_file)")
	processCmd.Flags().StringVar(&outputFile, "output", "", "Report file to write (overrides output_file)")
	processCmd.Flags().StringVar(&xlsxFile, "xlsx", "", `Workbook file to write, "-" to disable (overrides xlsx_report_file)`)
	processCmd.Flags().BoolVar(&noAPI, "no-api", false, "Disable product enrichment")
}

package cmd

import (
	"github.com/spf13/cobra"

	"shoe-report/export"
)

// reportCmd prints the report to the terminal
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the report to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, svc, err := generateReport(cmd.Context())
		if err != nil {
			return err
		}
		svc.SetOutput(cmd.OutOrStdout())
		svc.Print(report)
		return nil
	},
}

var outFlag string

// exportCmd writes the report workbook
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the report to an Excel workbook",
	Long: `Writes every tabular section of the report to an .xlsx workbook,
one sheet per section.

Example:
  shoe-report export --out report.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, _, err := generateReport(cmd.Context())
		if err != nil {
			return err
		}
		if err := export.SaveWorkbook(outFlag, report); err != nil {
			return err
		}
		logger.Info("[export] Workbook written to %s", outFlag)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&outFlag, "out", "shoe-report.xlsx", "Output workbook path")
}

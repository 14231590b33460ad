package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shoe-report/config"
	"shoe-report/models"
	"shoe-report/services"
	"shoe-report/storage"
	"shoe-report/utils"
)

var (
	// Global flags
	sourceFlag string
	dataFlag   string

	cfg    *config.Config
	logger *utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shoe-report",
	Short: "Exploratory analysis of climbing shoe listings",
	Long: `shoe-report loads a table of climbing shoe listings (CSV, PostgreSQL or SQLite)
and computes a fixed set of report sections: preview, shape, category share,
average price by category, price statistics and distribution, price against
weight, largest discounts, brand discounts and brand share.

The report can be served as a web dashboard, printed to the terminal or
exported to Excel. The scrape command collects fresh listings from 4camping.cz.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if cmd.Flags().Changed("source") {
			cfg.DataSource = sourceFlag
		}
		if cmd.Flags().Changed("data") {
			cfg.DataPath = dataFlag
		}

		logger = utils.NewLogger()
		logger.Configure(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "Data source: csv, postgres or sqlite (or set DATA_SOURCE env)")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "CSV input path (or set DATA_PATH env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(importCmd)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generateReport loads the configured source once and computes the report.
func generateReport(ctx context.Context) (*models.Report, *services.ReportService, error) {
	source, err := storage.OpenSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	defer source.Close()

	table, err := source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load listings: %w", err)
	}
	logger.Info("[report] Loaded %d listings from %s", table.Len(), cfg.DataSource)

	svc := services.NewReportService(logger)
	return svc.Generate(table), svc, nil
}

// openStore opens the SQL store selected by the data source.
func openStore(ctx context.Context) (*storage.SQLStore, error) {
	switch cfg.DataSource {
	case config.SourcePostgres, config.SourceSQLite:
		source, err := storage.OpenSource(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return source.(*storage.SQLStore), nil
	default:
		return nil, fmt.Errorf("data source %q is not a database; use --source postgres or --source sqlite", cfg.DataSource)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shoe-report/config"
	"shoe-report/scraper/fourcamping"
	"shoe-report/services"
	"shoe-report/storage"
)

// scrapeCmd collects listings from the shop
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape climbing shoe listings from 4camping.cz",
	Long: `Walks the catalogue with a headless browser, reads every product page,
cleans the raw values and writes the report input CSV (CSV_OUTPUT_PATH).

With --source postgres or --source sqlite the cleaned listings are also
stored in that database.`,
	RunE: runScrape,
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Climbing shoe scrape starting ===")
	logger.Info("Config: pages: %d | concurrency: %d | rate: %dms",
		cfg.PagesToScrape, cfg.MaxConcurrency, cfg.RateLimitMs)

	rawListings, err := fourcamping.New(cfg, logger).Scrape(ctx)
	if err != nil && len(rawListings) == 0 {
		return fmt.Errorf("scrape failed: %w", err)
	}
	if err != nil {
		logger.Warn("Scrape interrupted, keeping %d listings: %v", len(rawListings), err)
	}

	listings := services.NewCleaner(logger).Clean(rawListings)
	if len(listings) == 0 {
		return errors.New("all listings were dropped during cleaning")
	}
	logger.Info("Cleaned dataset: %d listings", len(listings))

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return err
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(ctx, listings); err != nil {
		return err
	}
	logger.Info("Listings saved to %s", cfg.CSVOutputPath)

	if cfg.DataSource == config.SourceCSV {
		return nil
	}
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Write(ctx, listings)
}

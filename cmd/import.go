package cmd

import (
	"github.com/spf13/cobra"

	"shoe-report/storage"
)

// importCmd loads a CSV into the database
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the listing CSV into PostgreSQL or SQLite",
	Long: `Reads the CSV at --data (DATA_PATH) and replaces the listings stored in the
database selected by --source.

Example:
  shoe-report import --source sqlite --data ./data/products_data.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		table, err := storage.NewCSVSource(cfg.DataPath).Load(ctx)
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Write(ctx, table.Listings); err != nil {
			return err
		}
		logger.Info("[import] %d listings imported from %s into %s", table.Len(), cfg.DataPath, cfg.DataSource)
		return nil
	},
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"shoe-report/dashboard"
	"shoe-report/server"
	"shoe-report/services"
	"shoe-report/storage"
)

var addrFlag string

// serveCmd starts the dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report as a web dashboard",
	Long: `Starts the HTTP dashboard. Every page request loads the listings again and
recomputes the report, so edits to the source show up on reload.

Endpoints:
  /                 the report page
  /charts/:name     one chart as SVG (category-share, price-box, price-weight, brand-discount)
  /export.xlsx      the report as an Excel workbook
  /healthz          liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (or set HTTP_ADDR env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr = addrFlag
	}

	source, err := storage.OpenSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	renderer, err := dashboard.NewRenderer(cfg.Currency)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(source, services.NewReportService(logger), renderer, cfg.Currency, logger)
	return srv.Run(ctx, cfg.HTTPAddr)
}

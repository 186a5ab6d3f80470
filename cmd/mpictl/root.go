package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mpidash/internal/config"
	"mpidash/internal/dataprocessing"
	"mpidash/internal/exporter"
	"mpidash/internal/infrastructure"
	"mpidash/internal/services"
	"mpidash/pkg/contracts"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	service *services.DashboardService

	rootDataDir  string
	rootDataFile string
	rootLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mpictl",
	Short: "Query the Major Projects dataset from the command line",
	Long: `Runs the dashboard's filter and aggregate pipeline without the HTTP server.

The dataset is located the same way the server does it: --file (or DATAFILE),
then mpi_2024_scored.xlsx, sample_mpi.xlsx, then any other workbook in the
data directory.

Examples:
  # Check the dataset schema
  mpictl validate --data-dir ./data

  # KPIs and top 5 rankings for Ontario energy projects
  mpictl summary --province ON --sector Energy --top-n 5

  # List flags repeat rather than split on commas
  mpictl summary --company "Acme, Inc." --company "Coastal Gas"

  # Export filtered rows
  mpictl export --year-min 2024 --year-max 2030 -o filtered.csv`,
	Version:      contracts.GetFullVersionString(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if rootDataDir != "" {
			c.Data.Dir = rootDataDir
		}
		if rootDataFile != "" {
			c.Data.File = rootDataFile
		}
		cfg = c

		level := cfg.Logging.Level
		if rootLogLevel != "" {
			level = rootLogLevel
		}
		// stdout carries command output; logs go to stderr.
		logger = infrastructure.NewLoggerWithWriter(cmd.ErrOrStderr(), infrastructure.ParseLogLevel(level))

		loader := dataprocessing.NewLoader(cfg.Data.Dir, cfg.Data.File, cfg.Data.PreferredFiles, logger)
		service = services.NewDashboardService(loader, exporter.NewCSVWriter(cfg.Data.ExportDir, logger), nil, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDataDir, "data-dir", "", "directory holding the dataset (overrides MPI_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&rootDataFile, "file", "", "dataset file, relative to the data directory unless absolute")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(validateCmd, summaryCmd, exportCmd, flowCmd, crosstabCmd)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mpidash/internal/exporter"
	"mpidash/internal/services"
	"mpidash/pkg/contracts/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report the resolved dataset and any missing columns",
	Long: `Loads the dataset and prints its source, row count and schema report.

Exits non-zero when no dataset could be loaded or required columns are missing.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := service.Validate(cmd.Context())
		if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
			return werr
		}
		if errors.Is(err, services.ErrSchemaIncomplete) || errors.Is(err, services.ErrDatasetUnavailable) {
			return fmt.Errorf("validate: %w", err)
		}
		return err
	},
}

var summaryFilters filterFlags

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print KPIs and top-N rankings for a filter as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		summary, err := service.Summary(cmd.Context(), summaryFilters.request(cmd))
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), summary)
	},
}

var flowFilters filterFlags

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print the start-status to end-status transition graph as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		graph, err := service.Flow(cmd.Context(), flowFilters.request(cmd))
		if err != nil {
			return fmt.Errorf("flow: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), graph)
	},
}

var (
	exportFilters filterFlags
	exportOutput  string
	exportBOM     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered projects as CSV",
	Long: `Writes every record and derived column of the filtered subset as CSV.

With -o - (the default) the CSV goes to stdout. Otherwise relative paths are
placed under the export directory (MPI_DATA_EXPORT_DIR).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := exportFilters.request(cmd)
		if exportOutput == "-" {
			if _, err := service.ExportCSV(cmd.Context(), req, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		}

		path, rows, err := service.ExportFile(cmd.Context(), req, exportOutput, exporter.WriteOptions{BOMPrefix: exportBOM})
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", rows, path)
		return nil
	},
}

var (
	crosstabFilters filterFlags
	crosstabTable   string
)

var crosstabCmd = &cobra.Command{
	Use:   "crosstab",
	Short: "Write one of the sector cross-tabulations as CSV",
	Long: `Writes a grouped table for the filtered subset to stdout.

Tables: sector-group (measured by --agg-mode), province-sector, cleantech.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		view, err := service.Sector(cmd.Context(), crosstabFilters.request(cmd))
		if err != nil {
			return fmt.Errorf("crosstab: %w", err)
		}

		var table domain.CrossTab
		switch crosstabTable {
		case "sector-group":
			table = view.SectorGroup
		case "province-sector":
			table = view.ProvinceSector
		case "cleantech":
			table = view.Cleantech
		default:
			return fmt.Errorf("crosstab: unknown table %q", crosstabTable)
		}
		return exporter.WriteCrossTab(cmd.OutOrStdout(), table)
	},
}

func init() {
	crosstabFilters.register(crosstabCmd.Flags())
	crosstabCmd.Flags().StringVar(&crosstabTable, "table", "sector-group", "sector-group, province-sector or cleantech")

	summaryFilters.register(summaryCmd.Flags())
	flowFilters.register(flowCmd.Flags())
	exportFilters.register(exportCmd.Flags())

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file, or - for stdout")
	exportCmd.Flags().BoolVar(&exportBOM, "bom", false, "prefix the file with a UTF-8 byte order mark")
}

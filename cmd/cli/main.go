package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"linedash/adapters/excel"
	"linedash/app"
	"linedash/domain/dataset"
	"linedash/domain/selection"
	"linedash/internal/config"
	"linedash/internal/errors"
	"linedash/internal/pipeline"
)

// globalOptions override the data section of the environment config
type globalOptions struct {
	linesFile    string
	stationsFile string
	sheet        string
}

func main() {
	_ = godotenv.Load() // optional for the CLI

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "linedash-cli",
		Short:         "Filter and summarize the mobile lines workbook from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.linesFile, "lines", "", "Lines workbook (default: LINES_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.stationsFile, "stations", "", "Stations workbook (default: STATIONS_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "Sheet to read (default: first sheet)")

	rootCmd.AddCommand(
		newCatalogCmd(opts),
		newSummaryCmd(opts),
		newUnusedCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the selectable values of every filter column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return runCatalog(cmd.OutOrStdout(), dashboard.Catalog(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	var filters []string
	var top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary [column]",
		Short: "Count filtered lines per value of a column",
		Long: `Count the filtered lines per value of a filter column, most frequent first.

With --top the N most frequent values are kept and listed in ascending order,
the way the dashboard bar charts draw them.

Example: linedash-cli summary FUNCAO --filter OPERADORA=VIVO,TIM --top 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sel, err := parseFilters(dashboard, filters)
			if err != nil {
				return err
			}
			return runSummary(cmd.OutOrStdout(), dashboard, sel, strings.ToUpper(args[0]), top, asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as COLUMN=v1,v2 (repeatable)")
	cmd.Flags().IntVar(&top, "top", 0, "Keep only the N most frequent values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newUnusedCmd(opts *globalOptions) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "unused",
		Short: "List filtered lines whose August status is 'Sem uso'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sel, err := parseFilters(dashboard, filters)
			if err != nil {
				return err
			}
			return runUnused(cmd.OutOrStdout(), dashboard.Unused(sel))
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as COLUMN=v1,v2 (repeatable)")
	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var filters []string
	var unused bool
	var sheet string

	cmd := &cobra.Command{
		Use:   "export [output.xlsx]",
		Short: "Write the filtered lines to a new workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sel, err := parseFilters(dashboard, filters)
			if err != nil {
				return err
			}

			table := dashboard.Filtered(sel)
			if unused {
				table = dashboard.Unused(sel)
			}
			return runExport(cmd.OutOrStdout(), args[0], table, sheet)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as COLUMN=v1,v2 (repeatable)")
	cmd.Flags().BoolVar(&unused, "unused", false, "Export only the 'Sem uso' lines")
	cmd.Flags().StringVar(&sheet, "sheet-name", "Linhas", "Sheet name in the output workbook")
	return cmd
}

func loadDashboard(ctx context.Context, opts *globalOptions) (*app.DashboardService, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.linesFile != "" {
		appConfig.Data.LinesFile = opts.linesFile
	}
	if opts.stationsFile != "" {
		appConfig.Data.StationsFile = opts.stationsFile
	}
	if opts.sheet != "" {
		appConfig.Data.SheetName = opts.sheet
	}
	return app.LoadDashboard(ctx, appConfig)
}

// parseFilters overlays --filter assignments on the full selection. Columns
// outside the catalog are rejected rather than silently ignored.
func parseFilters(dashboard *app.DashboardService, filters []string) (selection.Selection, error) {
	sel, err := selection.ParseAssignments(dashboard.DefaultSelection(), filters)
	if err != nil {
		return nil, err
	}
	for _, col := range sel.Columns() {
		if !dashboard.Catalog().Has(col) {
			return nil, errors.InvalidInput(fmt.Sprintf("unknown filter column %q, expected one of %s",
				col, strings.Join(dashboard.Catalog().Columns(), ", ")))
		}
	}
	return dashboard.Normalize(sel), nil
}

func runCatalog(w io.Writer, catalog pipeline.Catalog, asJSON bool) error {
	if asJSON {
		out := make(map[string][]string, len(catalog.Columns()))
		for _, col := range catalog.Columns() {
			out[col] = catalog.Options(col)
		}
		return writeJSON(w, out)
	}

	for _, col := range catalog.Columns() {
		options := catalog.Options(col)
		fmt.Fprintf(w, "%s (%s): %d values\n", col, app.FilterLabels[col], len(options))
		for _, v := range options {
			fmt.Fprintf(w, "  • %s\n", v)
		}
	}
	return nil
}

func runSummary(w io.Writer, dashboard *app.DashboardService, sel selection.Selection, column string, top int, asJSON bool) error {
	if !dashboard.Catalog().Has(column) {
		return errors.NotFound(fmt.Sprintf("filter column %s", column))
	}
	if top < 0 {
		return errors.InvalidInput(fmt.Sprintf("--top must not be negative, got %d", top))
	}

	filtered := dashboard.Filtered(sel)
	summary := pipeline.ValueCounts(filtered, column)
	if top > 0 {
		summary = pipeline.TopN(summary, top)
	}
	dist, err := pipeline.Describe(summary)
	if err != nil {
		return errors.Wrap(err, "failed to describe summary")
	}

	if asJSON {
		return writeJSON(w, map[string]interface{}{
			"column":        column,
			"filtered_rows": filtered.Len(),
			"summary":       summary,
			"distribution":  dist,
		})
	}

	fmt.Fprintf(w, "%s: %d of %d lines selected\n", column, filtered.Len(), dashboard.Datasets().Lines.Len())
	if len(summary) == 0 {
		fmt.Fprintln(w, "Nenhum dado para exibir.")
		return nil
	}
	width := 0
	for _, c := range summary {
		if len(c.Value) > width {
			width = len(c.Value)
		}
	}
	for i, c := range summary {
		fmt.Fprintf(w, "  %-*s %6d  %s\n", width, c.Value, c.Count, dist.Share(i))
	}
	fmt.Fprintf(w, "Concentration (HHI): %.3f\n", dist.Concentration)
	return nil
}

func runUnused(w io.Writer, table *dataset.Table) error {
	if table.IsEmpty() {
		fmt.Fprintln(w, "Nenhuma linha com status 'Sem uso' encontrada.")
		return nil
	}
	fmt.Fprintln(w, strings.Join(table.Columns, "\t"))
	for _, rec := range table.Records() {
		fmt.Fprintln(w, strings.Join(rec, "\t"))
	}
	fmt.Fprintf(w, "%d lines\n", table.Len())
	return nil
}

func runExport(w io.Writer, path string, table *dataset.Table, sheet string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := excel.WriteTable(f, table, sheet); err != nil {
		return err
	}
	fmt.Fprintf(w, "💾 %d lines written to %s\n", table.Len(), path)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

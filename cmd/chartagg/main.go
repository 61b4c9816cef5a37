// Package main provides the CLI entry point for chartagg.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-chart-dashboard/internal/dataset"
	"go-chart-dashboard/internal/engine"
	"go-chart-dashboard/internal/model"
)

var (
	groupColumn   string
	measureColumn string
	aggregation   string
	asJSON        bool
	outputPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chartagg [dataset.csv|xlsx]",
		Short: "Aggregate a dataset column the way dashboard charts do",
		Long: `chartagg groups a CSV or Excel dataset by one column and aggregates
another, printing the chart-ready rows as a table or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&groupColumn, "group", "g", "", "Column to group by (required)")
	rootCmd.Flags().StringVarP(&measureColumn, "measure", "m", "", "Column to aggregate (default: the group column)")
	rootCmd.Flags().StringVarP(&aggregation, "agg", "a", "sum", "Aggregation: sum, count, average")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.MarkFlagRequired("group")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	kind := model.AggregationKind(aggregation)
	if !kind.Valid() {
		return fmt.Errorf("invalid aggregation: %s (must be sum, count, or average)", aggregation)
	}

	// A bare --group with count gives the frequency table
	if measureColumn == "" {
		measureColumn = groupColumn
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	ds, err := dataset.Decode(f, filepath.Base(inputPath))
	if err != nil {
		return fmt.Errorf("decoding failed: %w", err)
	}

	rows := engine.Aggregate(ds.Rows, groupColumn, measureColumn, kind)

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return printTable(out, rows)
}

// printTable renders the aggregated rows. In frequency mode a row holds a
// single cell, so the table collapses to one column.
func printTable(out io.Writer, rows []model.Row) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	if groupColumn == measureColumn {
		fmt.Fprintf(w, "%s\n", groupColumn)
		for _, row := range rows {
			fmt.Fprintf(w, "%s\n", model.CellString(row[groupColumn]))
		}
		return w.Flush()
	}

	fmt.Fprintf(w, "%s\t%s\n", groupColumn, measureColumn)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n",
			model.CellString(row[groupColumn]), model.CellString(row[measureColumn]))
	}
	return w.Flush()
}

package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"menucompare/handlers"
	"menucompare/models"
	"menucompare/report"
)

var (
	compareJSON    bool
	compareNoColor bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <url>",
	Short: "Compare one dish URL against the other platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl-C cancels the comparison so the browser is closed on the way out.
		ctx, stop := interruptContext(cmd.Context())
		defer stop()

		a := newApp(cfg, zap.L())
		defer a.Close()

		return runCompare(ctx, a.service, args[0], cmd.OutOrStdout(), compareJSON, !compareNoColor && !color.NoColor)
	},
}

func runCompare(ctx context.Context, c handlers.Comparer, inputURL string, w io.Writer, asJSON, useColor bool) error {
	result, err := c.Compare(ctx, inputURL)
	if err != nil {
		return err
	}
	return writeComparison(w, result, asJSON, useColor)
}

func writeComparison(w io.Writer, result *models.ComparisonResult, asJSON, useColor bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return report.NewPrinter(w, useColor).Print(result)
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the result as JSON")
	compareCmd.Flags().BoolVar(&compareNoColor, "no-color", false, "disable coloured output")
	rootCmd.AddCommand(compareCmd)
}

// Package cli provides the command-line interface for the structure
// tracker.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"b3-tracker/internal/series"
	"b3-tracker/pkg/utils"
)

// addSeriesCommand adds the cumulative P&L series command.
func addSeriesCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Cumulative realized P&L series",
		Long: `Generate a date-ordered cumulative P&L series from realized
events: closed operations, executed rolls, and executed exercises.
A custom period needs both --from and --to; with either missing the
date filter is not applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Ledger == nil {
				output.Warning("Ledger not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			filter, err := parseSeriesFilter(cmd)
			if err != nil {
				output.Error("Invalid filter: %v", err)
				return err
			}

			asset, _ := cmd.Flags().GetString("asset")
			structures, rolls, exercises, err := loadSnapshot(ctx, app, "")
			if err != nil {
				output.Error("Failed to load ledger: %v", err)
				return err
			}
			filter.Asset = asset
			filter.Tracer = app.Tracer()

			entries := series.Generate(structures, rolls, exercises, filter)

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Info("No entries match the filter.")
				return nil
			}

			if filter.Period == series.PeriodCustom && (filter.Start == nil || filter.End == nil) {
				output.Warning("Custom period is incomplete; showing all dates.")
			}

			dateFormat := app.Config.UI.DateFormat
			table := NewTable(output, "Date", "Category", "Value", "Cum. structures", "Cum. rolls", "Cum. exercises", "Cum. total")
			for _, entry := range entries {
				table.AddRow(
					entry.Date.Format(dateFormat),
					string(entry.Category),
					output.FormatPnL(entry.Total),
					utils.FormatBRL(entry.CumulativeStructures),
					utils.FormatBRL(entry.CumulativeRolls),
					utils.FormatBRL(entry.CumulativeExercises),
					output.FormatPnL(entry.CumulativeTotal),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("asset", "", "filter by base asset (default all)")
	cmd.Flags().String("category", "all", "filter by category (all, structures, rolls, exercises)")
	cmd.Flags().String("period", "all", "period (all, week, month, quarter, year, custom)")
	cmd.Flags().String("from", "", "custom period start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "custom period end date (YYYY-MM-DD)")
	rootCmd.AddCommand(cmd)
}

func parseSeriesFilter(cmd *cobra.Command) (series.Filter, error) {
	var filter series.Filter

	categoryFlag, _ := cmd.Flags().GetString("category")
	category, err := series.ParseCategory(categoryFlag)
	if err != nil {
		return filter, err
	}
	filter.Category = category

	periodFlag, _ := cmd.Flags().GetString("period")
	period, err := series.ParsePeriod(periodFlag)
	if err != nil {
		return filter, err
	}
	filter.Period = period

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, err
		}
		filter.Start = &t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, err
		}
		filter.End = &t
	}

	return filter, nil
}

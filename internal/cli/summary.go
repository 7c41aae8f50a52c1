// Package cli provides the command-line interface for the structure
// tracker.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"b3-tracker/internal/models"
	"b3-tracker/internal/results"
	"b3-tracker/internal/store"
	"b3-tracker/pkg/utils"
)

// addSummaryCommand adds the results summary command.
func addSummaryCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate profit and cost totals",
		Long: `Reduce the ledger into summary totals: gross profit per source,
the cost breakdown, net profit, and profit margin. Every recorded
operation, roll, and exercise counts here; the series command counts
realized events only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Ledger == nil {
				output.Warning("Ledger not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			asset, _ := cmd.Flags().GetString("asset")
			structures, rolls, exercises, err := loadSnapshot(ctx, app, asset)
			if err != nil {
				output.Error("Failed to load ledger: %v", err)
				return err
			}

			summary := results.Compute(structures, rolls, exercises, app.Costs, results.WithTracer(app.Tracer()))

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Results")
			table := NewTable(output, "Source", "Result")
			table.AddRow("Structures", output.FormatPnL(summary.StructureResult))
			table.AddRow("Rolls", output.FormatPnL(summary.RollResult))
			table.AddRow("Exercises", output.FormatPnL(summary.ExerciseResult))
			table.AddRow("Gross profit", output.FormatPnL(summary.GrossProfit))
			table.Render()
			output.Println()

			output.Bold("Costs")
			costs := NewTable(output, "Cost", "Amount")
			costs.AddRow("Brokerage", utils.FormatBRL(summary.BrokerageCosts))
			costs.AddRow("Rolls", utils.FormatBRL(summary.RollCosts))
			costs.AddRow("Emoluments", utils.FormatBRL(summary.EmolumentsCosts))
			costs.AddRow("Exercises", utils.FormatBRL(summary.ExerciseCosts))
			costs.AddRow("Tax", utils.FormatBRL(summary.TaxCosts))
			costs.AddRow("Total", utils.FormatBRL(summary.TotalCosts))
			costs.Render()
			output.Println()

			output.Printf("Net profit:    %s\n", output.FormatPnL(summary.NetProfit))
			output.Printf("Profit margin: %s\n", output.FormatPercent(summary.ProfitMargin))
			output.Dim("%d operations, %d rolls", summary.TotalOperations, summary.TotalRolls)
			return nil
		},
	}
	cmd.Flags().String("asset", "", "filter by base asset")
	rootCmd.AddCommand(cmd)
}

// loadSnapshot reads the full collections out of the ledger, optionally
// pre-filtered by base asset. Rolls and exercises follow their owning
// structures when an asset filter is set.
func loadSnapshot(ctx context.Context, app *App, asset string) ([]models.Structure, []models.Roll, []models.Exercise, error) {
	structures, err := app.Ledger.GetStructures(ctx, store.StructureFilter{Asset: asset})
	if err != nil {
		return nil, nil, nil, err
	}
	rolls, err := app.Ledger.GetRolls(ctx, store.EventFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	exercises, err := app.Ledger.GetExercises(ctx, store.EventFilter{})
	if err != nil {
		return nil, nil, nil, err
	}

	if asset != "" {
		owned := make(map[string]bool, len(structures))
		for _, structure := range structures {
			owned[structure.ID] = true
		}
		keptRolls := rolls[:0]
		for _, roll := range rolls {
			if owned[roll.StructureID] {
				keptRolls = append(keptRolls, roll)
			}
		}
		rolls = keptRolls
		keptExercises := exercises[:0]
		for _, exercise := range exercises {
			if owned[exercise.StructureID] {
				keptExercises = append(keptExercises, exercise)
			}
		}
		exercises = keptExercises
	}

	return structures, rolls, exercises, nil
}

// Package cli provides the command-line interface for the structure
// tracker.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"b3-tracker/internal/coverage"
	"b3-tracker/internal/models"
	"b3-tracker/internal/store"
	"b3-tracker/pkg/utils"
)

const commandTimeout = 30 * time.Second

// addStructureCommands adds structure lifecycle commands.
func addStructureCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "structures",
		Short: "Structure lifecycle management",
		Long:  "Create, list, activate, and close multi-leg structures.",
	}

	cmd.AddCommand(newStructuresListCmd(app))
	cmd.AddCommand(newStructuresAddCmd(app))
	cmd.AddCommand(newStructuresActivateCmd(app))
	cmd.AddCommand(newStructuresCloseCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStructuresListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List structures with per-leg coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Ledger == nil {
				output.Warning("Ledger not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			status, _ := cmd.Flags().GetString("status")
			asset, _ := cmd.Flags().GetString("asset")
			structures, err := app.Ledger.GetStructures(ctx, store.StructureFilter{
				Status: models.StructureStatus(strings.ToUpper(status)),
				Asset:  asset,
			})
			if err != nil {
				output.Error("Failed to fetch structures: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(structures)
			}

			if len(structures) == 0 {
				output.Info("No structures found.")
				return nil
			}

			for _, structure := range structures {
				output.Bold("%s  [%s]  %s", structure.Name, structure.Status, structure.ID)
				table := NewTable(output, "Asset", "Kind", "Side", "Qty", "Premium", "Coverage")
				for i, leg := range structure.Legs {
					siblings := siblingLegs(structure.Legs, i)
					badge := "-"
					if label, ok := coverage.Classify(leg, siblings); ok {
						badge = coverageBadge(output, label)
					}
					table.AddRow(
						leg.Asset,
						string(leg.Kind),
						string(leg.Side),
						utils.FormatQuantity(leg.Quantity),
						utils.FormatBRL(leg.Premium),
						badge,
					)
				}
				table.Render()
				output.Dim("Net premium: %s  Operations: %d", utils.FormatBRL(structure.TheoreticalNetPremium), len(structure.Operations))
				output.Println()
			}
			return nil
		},
	}
	cmd.Flags().String("status", "", "filter by status (BUILDING, ACTIVE, CLOSED)")
	cmd.Flags().String("asset", "", "filter by base asset")
	return cmd
}

func newStructuresAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a structure in BUILDING state",
		Long: `Create a structure from leg descriptors.

Each --leg is ASSET:KIND:SIDE:QTY[:PREMIUM], e.g.
  --leg PETR4:STOCK:LONG:100
  --leg PETRA17:CALL:SHORT:100:1.25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Ledger == nil {
				output.Warning("Ledger not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			name, _ := cmd.Flags().GetString("name")
			underlying, _ := cmd.Flags().GetString("underlying")
			legSpecs, _ := cmd.Flags().GetStringArray("leg")

			legs := make([]models.Leg, 0, len(legSpecs))
			for _, spec := range legSpecs {
				leg, err := parseLeg(spec)
				if err != nil {
					output.Error("Invalid leg %q: %v", spec, err)
					return err
				}
				legs = append(legs, leg)
			}

			structure, err := models.NewStructure(name, underlying, legs)
			if err != nil {
				output.Error("Failed to create structure: %v", err)
				return err
			}
			if err := app.Ledger.SaveStructure(ctx, structure); err != nil {
				output.Error("Failed to save structure: %v", err)
				return err
			}

			app.Logger.Info().Str("structure_id", structure.ID).Str("name", name).Msg("Structure created")
			if output.IsJSON() {
				return output.JSON(structure)
			}
			output.Success("Structure %s created (%s)", name, structure.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "structure name")
	cmd.Flags().String("underlying", "", "underlying base asset")
	cmd.Flags().StringArray("leg", nil, "leg descriptor ASSET:KIND:SIDE:QTY[:PREMIUM] (repeatable)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("leg")
	return cmd
}

func newStructuresActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <structure-id>",
		Short: "Activate a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionStructure(cmd, app, args[0], func(s *models.Structure) error {
				return s.Activate(time.Now())
			}, "activated")
		},
	}
}

func newStructuresCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close <structure-id>",
		Short: "Close an active structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionStructure(cmd, app, args[0], func(s *models.Structure) error {
				return s.Close(time.Now())
			}, "closed")
		},
	}
}

func transitionStructure(cmd *cobra.Command, app *App, id string, transition func(*models.Structure) error, verb string) error {
	output := NewOutput(cmd)
	if app.Ledger == nil {
		output.Warning("Ledger not initialized.")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	structure, err := app.Ledger.GetStructure(ctx, id)
	if err != nil {
		output.Error("Failed to fetch structure: %v", err)
		return err
	}
	if err := transition(structure); err != nil {
		output.Error("Failed to transition structure: %v", err)
		return err
	}
	if err := app.Ledger.SaveStructure(ctx, structure); err != nil {
		output.Error("Failed to save structure: %v", err)
		return err
	}

	app.Logger.Info().Str("structure_id", id).Str("status", string(structure.Status)).Msg("Structure transitioned")
	if output.IsJSON() {
		return output.JSON(structure)
	}
	output.Success("Structure %s %s", structure.Name, verb)
	return nil
}

// parseLeg parses an ASSET:KIND:SIDE:QTY[:PREMIUM] descriptor.
func parseLeg(spec string) (models.Leg, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 || len(parts) > 5 {
		return models.Leg{}, fmt.Errorf("expected ASSET:KIND:SIDE:QTY[:PREMIUM]")
	}
	qty, err := strconv.Atoi(parts[3])
	if err != nil {
		return models.Leg{}, fmt.Errorf("quantity: %w", err)
	}
	leg := models.Leg{
		Asset:    strings.ToUpper(parts[0]),
		Kind:     models.LegKind(strings.ToUpper(parts[1])),
		Side:     models.LegSide(strings.ToUpper(parts[2])),
		Quantity: qty,
	}
	if len(parts) == 5 {
		premium, err := decimal.NewFromString(parts[4])
		if err != nil {
			return models.Leg{}, fmt.Errorf("premium: %w", err)
		}
		leg.Premium = premium
	}
	return leg, leg.Validate()
}

// siblingLegs returns every leg except the one at index i.
func siblingLegs(legs []models.Leg, i int) []models.Leg {
	siblings := make([]models.Leg, 0, len(legs)-1)
	siblings = append(siblings, legs[:i]...)
	siblings = append(siblings, legs[i+1:]...)
	return siblings
}

func coverageBadge(output *Output, label coverage.Label) string {
	switch label {
	case coverage.Locked:
		return output.ColoredString(ColorCyan, string(label))
	case coverage.Hedged, coverage.Covered:
		return output.ColoredString(ColorGreen, string(label))
	case coverage.Uncovered:
		return output.ColoredString(ColorRed, string(label))
	default:
		return string(label)
	}
}

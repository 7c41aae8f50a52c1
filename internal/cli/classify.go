// Package cli provides the command-line interface for the structure
// tracker.
package cli

import (
	"github.com/spf13/cobra"

	"b3-tracker/internal/assets"
	"b3-tracker/internal/coverage"
	"b3-tracker/internal/models"
	"b3-tracker/pkg/utils"
)

// addClassifyCommand adds the one-off leg classification command.
func addClassifyCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify coverage for a described leg set",
		Long: `Classify every leg of an ad-hoc leg set without touching the
ledger. Legs use the same descriptor as 'structures add':
ASSET:KIND:SIDE:QTY[:PREMIUM].

The session status line reflects the B3 São Paulo trading calendar.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

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

			type classified struct {
				Leg      models.Leg     `json:"leg"`
				Base     string         `json:"base_asset"`
				Coverage coverage.Label `json:"coverage,omitempty"`
			}
			results := make([]classified, 0, len(legs))
			for i, leg := range legs {
				c := classified{Leg: leg, Base: assets.Underlying(leg.Asset)}
				if label, ok := coverage.Classify(leg, siblingLegs(legs, i)); ok {
					c.Coverage = label
				}
				results = append(results, c)
			}

			if output.IsJSON() {
				return output.JSON(results)
			}

			table := NewTable(output, "Asset", "Base", "Kind", "Side", "Qty", "Coverage")
			for _, c := range results {
				badge := "-"
				if c.Coverage != "" {
					badge = coverageBadge(output, c.Coverage)
				}
				table.AddRow(
					c.Leg.Asset,
					c.Base,
					string(c.Leg.Kind),
					string(c.Leg.Side),
					utils.FormatQuantity(c.Leg.Quantity),
					badge,
				)
			}
			table.Render()
			output.Dim("B3 session: %s", utils.GetSessionStatus())
			return nil
		},
	}
	cmd.Flags().StringArray("leg", nil, "leg descriptor ASSET:KIND:SIDE:QTY[:PREMIUM] (repeatable)")
	cmd.MarkFlagRequired("leg")
	rootCmd.AddCommand(cmd)
}

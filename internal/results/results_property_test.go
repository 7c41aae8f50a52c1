package results

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"b3-tracker/internal/models"
)

func genStructures() gopter.Gen {
	genOperation := gopter.CombineGens(
		gen.Int64Range(-100000, 100000),
		gen.OneConstOf(models.OperationOpen, models.OperationClosed),
	).Map(func(values []interface{}) models.Operation {
		return models.Operation{
			Result: decimal.New(values[0].(int64), -2),
			Status: values[1].(models.OperationStatus),
		}
	})

	return gen.SliceOf(gen.SliceOf(genOperation).Map(func(ops []models.Operation) models.Structure {
		return models.Structure{Operations: ops}
	}))
}

func TestPropertyCostModelIdentities(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("net profit is gross minus total costs", prop.ForAll(
		func(structures []models.Structure) bool {
			summary := Compute(structures, nil, nil, DefaultCostConfig())
			return summary.NetProfit.Equal(summary.GrossProfit.Sub(summary.TotalCosts))
		},
		genStructures(),
	))

	properties.Property("total costs is the sum of the five components", prop.ForAll(
		func(structures []models.Structure) bool {
			summary := Compute(structures, nil, nil, DefaultCostConfig())
			sum := summary.BrokerageCosts.
				Add(summary.RollCosts).
				Add(summary.EmolumentsCosts).
				Add(summary.ExerciseCosts).
				Add(summary.TaxCosts)
			return summary.TotalCosts.Equal(sum)
		},
		genStructures(),
	))

	properties.Property("cost components are never negative", prop.ForAll(
		func(structures []models.Structure) bool {
			summary := Compute(structures, nil, nil, DefaultCostConfig())
			for _, cost := range []decimal.Decimal{
				summary.BrokerageCosts, summary.RollCosts, summary.EmolumentsCosts,
				summary.ExerciseCosts, summary.TaxCosts, summary.TotalCosts,
			} {
				if cost.IsNegative() {
					return false
				}
			}
			return true
		},
		genStructures(),
	))

	properties.Property("margin is zero exactly when gross is zero", prop.ForAll(
		func(structures []models.Structure) bool {
			summary := Compute(structures, nil, nil, DefaultCostConfig())
			if summary.GrossProfit.IsZero() {
				return summary.ProfitMargin.IsZero()
			}
			return true
		},
		genStructures(),
	))

	properties.TestingRun(t)
}

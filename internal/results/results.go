// Package results reduces structures, rolls and exercises into summary
// profit and cost totals.
package results

import (
	"github.com/shopspring/decimal"

	"b3-tracker/internal/models"
	"b3-tracker/internal/observe"
)

// CostConfig holds the fixed cost constants of the cost model. All of
// them are configuration values, never derived.
type CostConfig struct {
	// BrokerageFee is the fixed per-trade fee charged per operation.
	BrokerageFee decimal.Decimal
	// EmolumentsRate is the exchange fee rate applied to absolute
	// operation results.
	EmolumentsRate decimal.Decimal
	// TaxRate is applied to positive gross profit only; losses are
	// never taxed.
	TaxRate decimal.Decimal
}

// DefaultCostConfig returns the default cost constants.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		BrokerageFee:   decimal.RequireFromString("2.50"),
		EmolumentsRate: decimal.RequireFromString("0.0025"),
		TaxRate:        decimal.RequireFromString("0.15"),
	}
}

// Summary holds the aggregated profit and cost totals.
//
// The result fields sum every recorded operation, roll and exercise
// regardless of status: they are an as-of-now mark. The time series in
// the series package counts only realized events; the two are
// deliberately not the same number.
type Summary struct {
	StructureResult decimal.Decimal `json:"structure_result"`
	RollResult      decimal.Decimal `json:"roll_result"`
	ExerciseResult  decimal.Decimal `json:"exercise_result"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`

	BrokerageCosts  decimal.Decimal `json:"brokerage_costs"`
	RollCosts       decimal.Decimal `json:"roll_costs"`
	EmolumentsCosts decimal.Decimal `json:"emoluments_costs"`
	ExerciseCosts   decimal.Decimal `json:"exercise_costs"`
	TaxCosts        decimal.Decimal `json:"tax_costs"`
	TotalCosts      decimal.Decimal `json:"total_costs"`

	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`

	TotalOperations int `json:"total_operations"`
	TotalRolls      int `json:"total_rolls"`
}

// Option configures a computation.
type Option func(*computation)

// WithTracer injects a trace hook. The default discards events.
func WithTracer(t observe.Tracer) Option {
	return func(c *computation) { c.tracer = t }
}

type computation struct {
	tracer observe.Tracer
}

var hundred = decimal.NewFromInt(100)

// Compute aggregates the collections into summary totals. Inputs are
// never mutated; every call returns a freshly computed Summary.
func Compute(structures []models.Structure, rolls []models.Roll, exercises []models.Exercise, cfg CostConfig, opts ...Option) Summary {
	c := computation{tracer: observe.NopTracer{}}
	for _, opt := range opts {
		opt(&c)
	}

	var s Summary
	s.StructureResult = decimal.Zero
	s.RollResult = decimal.Zero
	s.ExerciseResult = decimal.Zero

	absResults := decimal.Zero
	for _, st := range structures {
		for _, op := range st.Operations {
			s.StructureResult = s.StructureResult.Add(op.Result)
			absResults = absResults.Add(op.Result.Abs())
			s.TotalOperations++
		}
	}
	for _, roll := range rolls {
		if roll.RealizedProfit != nil {
			s.RollResult = s.RollResult.Add(*roll.RealizedProfit)
		}
		s.TotalRolls++
	}
	for _, ex := range exercises {
		s.ExerciseResult = s.ExerciseResult.Add(ex.TotalResult)
	}

	s.GrossProfit = s.StructureResult.Add(s.RollResult).Add(s.ExerciseResult)

	s.BrokerageCosts = cfg.BrokerageFee.Mul(decimal.NewFromInt(int64(s.TotalOperations)))
	s.RollCosts = decimal.Zero
	for _, roll := range rolls {
		s.RollCosts = s.RollCosts.Add(roll.RollCost.Abs())
	}
	s.EmolumentsCosts = absResults.Mul(cfg.EmolumentsRate)
	s.ExerciseCosts = decimal.Zero
	for _, ex := range exercises {
		s.ExerciseCosts = s.ExerciseCosts.Add(ex.TotalCost)
	}
	if s.GrossProfit.IsPositive() {
		s.TaxCosts = s.GrossProfit.Mul(cfg.TaxRate)
	} else {
		s.TaxCosts = decimal.Zero
	}

	s.TotalCosts = s.BrokerageCosts.
		Add(s.RollCosts).
		Add(s.EmolumentsCosts).
		Add(s.ExerciseCosts).
		Add(s.TaxCosts)

	s.NetProfit = s.GrossProfit.Sub(s.TotalCosts)
	if s.GrossProfit.IsZero() {
		s.ProfitMargin = decimal.Zero
	} else {
		s.ProfitMargin = s.NetProfit.Div(s.GrossProfit).Mul(hundred)
	}

	c.tracer.Trace("results computed", map[string]interface{}{
		"structures":   len(structures),
		"operations":   s.TotalOperations,
		"rolls":        s.TotalRolls,
		"exercises":    len(exercises),
		"gross_profit": s.GrossProfit.String(),
		"net_profit":   s.NetProfit.String(),
	})

	return s
}

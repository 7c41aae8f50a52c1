package results

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"b3-tracker/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeEmptyCollections(t *testing.T) {
	summary := Compute(nil, nil, nil, DefaultCostConfig())

	zeros := map[string]decimal.Decimal{
		"StructureResult": summary.StructureResult,
		"RollResult":      summary.RollResult,
		"ExerciseResult":  summary.ExerciseResult,
		"GrossProfit":     summary.GrossProfit,
		"TotalCosts":      summary.TotalCosts,
		"NetProfit":       summary.NetProfit,
		"ProfitMargin":    summary.ProfitMargin,
	}
	for name, value := range zeros {
		if !value.IsZero() {
			t.Errorf("%s = %s, want 0", name, value)
		}
	}
	if summary.TotalOperations != 0 || summary.TotalRolls != 0 {
		t.Errorf("counts = %d/%d, want 0/0", summary.TotalOperations, summary.TotalRolls)
	}
}

// Single closed operation of 1000 against the default cost constants.
func TestComputeSingleOperation(t *testing.T) {
	structures := []models.Structure{{
		Operations: []models.Operation{{
			Asset:  "PETR4",
			Result: d("1000"),
			Status: models.OperationClosed,
		}},
	}}

	summary := Compute(structures, nil, nil, DefaultCostConfig())

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"GrossProfit", summary.GrossProfit, "1000"},
		{"BrokerageCosts", summary.BrokerageCosts, "2.5"},
		{"EmolumentsCosts", summary.EmolumentsCosts, "2.5"},
		{"TaxCosts", summary.TaxCosts, "150"},
		{"TotalCosts", summary.TotalCosts, "155"},
		{"NetProfit", summary.NetProfit, "845"},
		{"ProfitMargin", summary.ProfitMargin, "84.5"},
	}
	for _, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if summary.TotalOperations != 1 {
		t.Errorf("TotalOperations = %d, want 1", summary.TotalOperations)
	}
}

// Summary totals count every record regardless of status — open
// operations and pending events included.
func TestComputeCountsAllStatuses(t *testing.T) {
	structures := []models.Structure{{
		Operations: []models.Operation{
			{Result: d("100"), Status: models.OperationClosed},
			{Result: d("-40"), Status: models.OperationOpen},
		},
	}}
	realized := d("30")
	rolls := []models.Roll{
		{RollCost: d("-5"), RealizedProfit: &realized, Status: models.EventPending},
		{RollCost: d("10"), Status: models.EventExecuted}, // nil profit counts as 0
	}
	exercises := []models.Exercise{
		{TotalResult: d("20"), TotalCost: d("3"), Status: models.EventPending},
	}

	summary := Compute(structures, rolls, exercises, DefaultCostConfig())

	if !summary.StructureResult.Equal(d("60")) {
		t.Errorf("StructureResult = %s, want 60", summary.StructureResult)
	}
	if !summary.RollResult.Equal(d("30")) {
		t.Errorf("RollResult = %s, want 30", summary.RollResult)
	}
	if !summary.ExerciseResult.Equal(d("20")) {
		t.Errorf("ExerciseResult = %s, want 20", summary.ExerciseResult)
	}
	if !summary.GrossProfit.Equal(d("110")) {
		t.Errorf("GrossProfit = %s, want 110", summary.GrossProfit)
	}
	// Roll costs by absolute value, both rolls count.
	if !summary.RollCosts.Equal(d("15")) {
		t.Errorf("RollCosts = %s, want 15", summary.RollCosts)
	}
	if !summary.ExerciseCosts.Equal(d("3")) {
		t.Errorf("ExerciseCosts = %s, want 3", summary.ExerciseCosts)
	}
	if summary.TotalOperations != 2 || summary.TotalRolls != 2 {
		t.Errorf("counts = %d/%d, want 2/2", summary.TotalOperations, summary.TotalRolls)
	}
}

// Losses are never taxed.
func TestComputeNoTaxOnLoss(t *testing.T) {
	structures := []models.Structure{{
		Operations: []models.Operation{{Result: d("-500"), Status: models.OperationClosed}},
	}}

	summary := Compute(structures, nil, nil, DefaultCostConfig())

	if !summary.TaxCosts.IsZero() {
		t.Errorf("TaxCosts = %s, want 0", summary.TaxCosts)
	}
	if !summary.GrossProfit.Equal(d("-500")) {
		t.Errorf("GrossProfit = %s, want -500", summary.GrossProfit)
	}
	// Brokerage and emoluments still apply.
	if !summary.BrokerageCosts.Equal(d("2.5")) {
		t.Errorf("BrokerageCosts = %s, want 2.5", summary.BrokerageCosts)
	}
	if !summary.EmolumentsCosts.Equal(d("1.25")) {
		t.Errorf("EmolumentsCosts = %s, want 1.25", summary.EmolumentsCosts)
	}
}

func TestComputeOverriddenConstants(t *testing.T) {
	cfg := CostConfig{
		BrokerageFee:   d("5"),
		EmolumentsRate: d("0.01"),
		TaxRate:        d("0.20"),
	}
	structures := []models.Structure{{
		Operations: []models.Operation{{Result: d("1000"), Status: models.OperationClosed}},
	}}

	summary := Compute(structures, nil, nil, cfg)

	if !summary.BrokerageCosts.Equal(d("5")) {
		t.Errorf("BrokerageCosts = %s, want 5", summary.BrokerageCosts)
	}
	if !summary.EmolumentsCosts.Equal(d("10")) {
		t.Errorf("EmolumentsCosts = %s, want 10", summary.EmolumentsCosts)
	}
	if !summary.TaxCosts.Equal(d("200")) {
		t.Errorf("TaxCosts = %s, want 200", summary.TaxCosts)
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	now := time.Now()
	structures := []models.Structure{{
		ID:        "s1",
		CreatedAt: now,
		Operations: []models.Operation{
			{Result: d("100"), Status: models.OperationClosed},
		},
	}}
	before := structures[0].Operations[0].Result

	Compute(structures, nil, nil, DefaultCostConfig())

	if !structures[0].Operations[0].Result.Equal(before) {
		t.Error("Compute mutated its input")
	}
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "b3-tracker/internal/errors"
	"b3-tracker/internal/models"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteLedger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func testStructure(t *testing.T, name, stock, option string) *models.Structure {
	t.Helper()
	structure, err := models.NewStructure(name, stock, []models.Leg{
		{Asset: stock, Kind: models.KindStock, Side: models.SideLong, Quantity: 100, EntryPrice: decimal.RequireFromString("30.50")},
		{Asset: option, Kind: models.KindCall, Side: models.SideShort, Quantity: 100, Premium: decimal.RequireFromString("1.25")},
	})
	if err != nil {
		t.Fatalf("NewStructure: %v", err)
	}
	return structure
}

func TestStructureRoundTrip(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	structure := testStructure(t, "Covered call", "PETR4", "PETRA17")
	if err := structure.Activate(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := structure.AddOperation(models.Operation{
		Asset:     "PETRA17",
		Result:    decimal.RequireFromString("123.45"),
		EntryDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Status:    models.OperationClosed,
	}); err != nil {
		t.Fatalf("AddOperation: %v", err)
	}

	if err := ledger.SaveStructure(ctx, structure); err != nil {
		t.Fatalf("SaveStructure: %v", err)
	}

	loaded, err := ledger.GetStructure(ctx, structure.ID)
	if err != nil {
		t.Fatalf("GetStructure: %v", err)
	}

	if loaded.Name != structure.Name || loaded.Status != models.StatusActive {
		t.Errorf("loaded %s/%s, want %s/ACTIVE", loaded.Name, loaded.Status, structure.Name)
	}
	if len(loaded.Legs) != 2 || len(loaded.Operations) != 1 {
		t.Fatalf("loaded %d legs, %d operations, want 2, 1", len(loaded.Legs), len(loaded.Operations))
	}
	if !loaded.TheoreticalNetPremium.Equal(structure.TheoreticalNetPremium) {
		t.Errorf("net premium %s, want %s", loaded.TheoreticalNetPremium, structure.TheoreticalNetPremium)
	}
	if !loaded.Operations[0].Result.Equal(decimal.RequireFromString("123.45")) {
		t.Errorf("operation result %s, want 123.45", loaded.Operations[0].Result)
	}
	if loaded.ActivationDate == nil {
		t.Error("activation date not persisted")
	}
}

func TestGetStructureNotFound(t *testing.T) {
	ledger := newTestLedger(t)

	_, err := ledger.GetStructure(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrStructureNotFound) {
		t.Errorf("GetStructure(missing) = %v, want ErrStructureNotFound", err)
	}
}

func TestGetStructuresFilters(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	petr := testStructure(t, "petr", "PETR4", "PETRA17")
	vale := testStructure(t, "vale", "VALE3", "VALEB28")
	if err := vale.Activate(time.Now()); err != nil {
		t.Fatal(err)
	}
	for _, s := range []*models.Structure{petr, vale} {
		if err := ledger.SaveStructure(ctx, s); err != nil {
			t.Fatalf("SaveStructure: %v", err)
		}
	}

	active, err := ledger.GetStructures(ctx, StructureFilter{Status: models.StatusActive})
	if err != nil {
		t.Fatalf("GetStructures: %v", err)
	}
	if len(active) != 1 || active[0].Name != "vale" {
		t.Errorf("status filter returned %d structures", len(active))
	}

	// The option code resolves to the same base asset as the underlying.
	byAsset, err := ledger.GetStructures(ctx, StructureFilter{Asset: "PETRA17"})
	if err != nil {
		t.Fatalf("GetStructures: %v", err)
	}
	if len(byAsset) != 1 || byAsset[0].Name != "petr" {
		t.Errorf("asset filter returned %d structures", len(byAsset))
	}
}

func TestRollRoundTrip(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	roll, err := models.NewRoll("s1",
		[]models.Leg{{Asset: "PETRA17", Kind: models.KindCall, Side: models.SideShort, Quantity: 100}},
		[]models.Leg{{Asset: "PETRB17", Kind: models.KindCall, Side: models.SideShort, Quantity: 100}},
		decimal.RequireFromString("-3.20"),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewRoll: %v", err)
	}
	if err := ledger.SaveRoll(ctx, roll); err != nil {
		t.Fatalf("SaveRoll: %v", err)
	}

	// Realized profit survives execution and re-save; nil survives too.
	realized := decimal.RequireFromString("55.50")
	if err := roll.Execute(&realized); err != nil {
		t.Fatal(err)
	}
	if err := ledger.SaveRoll(ctx, roll); err != nil {
		t.Fatalf("SaveRoll after execute: %v", err)
	}

	rolls, err := ledger.GetRolls(ctx, EventFilter{StructureID: "s1"})
	if err != nil {
		t.Fatalf("GetRolls: %v", err)
	}
	if len(rolls) != 1 {
		t.Fatalf("got %d rolls, want 1", len(rolls))
	}
	loaded := rolls[0]
	if loaded.Status != models.EventExecuted {
		t.Errorf("status %s, want EXECUTED", loaded.Status)
	}
	if loaded.RealizedProfit == nil || !loaded.RealizedProfit.Equal(realized) {
		t.Errorf("realized profit %v, want %s", loaded.RealizedProfit, realized)
	}
	if !loaded.RollCost.Equal(decimal.RequireFromString("-3.20")) {
		t.Errorf("roll cost %s, want -3.20", loaded.RollCost)
	}
	if len(loaded.OriginalLegs) != 1 || len(loaded.NewLegs) != 1 {
		t.Errorf("legs %d/%d, want 1/1", len(loaded.OriginalLegs), len(loaded.NewLegs))
	}
}

func TestRollNilRealizedProfit(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	roll, err := models.NewRoll("s1", nil, nil, decimal.Zero, time.Now())
	if err != nil {
		t.Fatalf("NewRoll: %v", err)
	}
	if err := ledger.SaveRoll(ctx, roll); err != nil {
		t.Fatalf("SaveRoll: %v", err)
	}

	rolls, err := ledger.GetRolls(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("GetRolls: %v", err)
	}
	if len(rolls) != 1 || rolls[0].RealizedProfit != nil {
		t.Errorf("nil realized profit did not round-trip")
	}
}

func TestExerciseRoundTripAndFilter(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	pending, err := models.NewExercise("s1",
		[]models.ExercisedOption{{Asset: "PETRA17", Strike: decimal.RequireFromString("17"), Quantity: 100}},
		decimal.RequireFromString("-250"), decimal.RequireFromString("12.30"),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	executed, err := models.NewExercise("s2",
		[]models.ExercisedOption{{Asset: "VALEB28", Quantity: 200}},
		decimal.RequireFromString("900"), decimal.Zero,
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	if err := executed.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, e := range []*models.Exercise{pending, executed} {
		if err := ledger.SaveExercise(ctx, e); err != nil {
			t.Fatalf("SaveExercise: %v", err)
		}
	}

	all, err := ledger.GetExercises(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("GetExercises: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d exercises, want 2", len(all))
	}

	executedOnly, err := ledger.GetExercises(ctx, EventFilter{Status: models.EventExecuted})
	if err != nil {
		t.Fatalf("GetExercises: %v", err)
	}
	if len(executedOnly) != 1 || executedOnly[0].StructureID != "s2" {
		t.Errorf("status filter returned %d exercises", len(executedOnly))
	}
	if !executedOnly[0].TotalResult.Equal(decimal.RequireFromString("900")) {
		t.Errorf("total result %s, want 900", executedOnly[0].TotalResult)
	}
}

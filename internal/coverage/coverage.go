// Package coverage classifies how a leg is hedged or exposed relative
// to the sibling legs of its structure.
package coverage

import (
	"b3-tracker/internal/assets"
	"b3-tracker/internal/models"
)

// Label describes whether a leg's risk is offset by a sibling leg.
type Label string

const (
	// Locked marks a position whose risk is fully offset by an opposing
	// sibling, e.g. a covered call over long stock.
	Locked Label = "LOCKED"
	// Hedged marks a position protected by a sibling, e.g. a protective put.
	Hedged Label = "HEDGED"
	// Covered marks a short option backed by inventory or cash.
	Covered Label = "COVERED"
	// Uncovered marks a position with no offsetting sibling.
	Uncovered Label = "UNCOVERED"
)

// rule is one (predicate, label) pair of the classification ladder.
type rule struct {
	match func(leg models.Leg, siblings []models.Leg) bool
	label Label
}

// ladder holds the ordered rules per (kind, side). First match wins, so
// the precedence stays auditable in one place. Combinations absent from
// the table (long options, futures) carry no label.
var ladder = map[models.LegKind]map[models.LegSide][]rule{
	models.KindStock: {
		models.SideLong: {
			{hasSibling(models.KindCall, models.SideShort, atMostLegQty), Locked},
			{hasSibling(models.KindPut, models.SideLong, atMostLegQty), Hedged},
			{always, Uncovered},
		},
		models.SideShort: {
			{hasSibling(models.KindPut, models.SideShort, atMostLegQty), Locked},
			{hasSibling(models.KindCall, models.SideLong, atMostLegQty), Hedged},
			{always, Uncovered},
		},
	},
	models.KindCall: {
		models.SideShort: {
			{hasSibling(models.KindStock, models.SideLong, atLeastLegQty), Covered},
			{always, Uncovered},
		},
	},
	models.KindPut: {
		// Cash-secured put assumption: no inventory check.
		models.SideShort: {
			{always, Covered},
		},
	},
}

// Classify returns the coverage label for a leg given the sibling legs
// of the same structure. The second return value is false when the
// kind/side combination carries no label. Classification is advisory:
// it never fails, and an empty or malformed sibling list simply yields
// no offsetting match.
func Classify(leg models.Leg, siblings []models.Leg) (Label, bool) {
	rules, ok := ladder[leg.Kind][leg.Side]
	if !ok {
		return "", false
	}
	for _, r := range rules {
		if r.match(leg, siblings) {
			return r.label, true
		}
	}
	return "", false
}

func always(models.Leg, []models.Leg) bool { return true }

// hasSibling builds a predicate that scans the siblings for a position
// of the given kind and side on the same underlying whose quantity
// satisfies qty.
func hasSibling(kind models.LegKind, side models.LegSide, qty func(leg, sibling int) bool) func(models.Leg, []models.Leg) bool {
	return func(leg models.Leg, siblings []models.Leg) bool {
		for _, sib := range siblings {
			if sib.Kind != kind || sib.Side != side {
				continue
			}
			if !assets.SameUnderlying(leg.Asset, sib.Asset) {
				continue
			}
			if qty(leg.Quantity, sib.Quantity) {
				return true
			}
		}
		return false
	}
}

func atMostLegQty(leg, sibling int) bool  { return sibling <= leg }
func atLeastLegQty(leg, sibling int) bool { return sibling >= leg }

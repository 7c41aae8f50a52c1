// Package models provides domain models for the structure tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegKind represents the instrument kind of a leg.
type LegKind string

const (
	KindStock  LegKind = "STOCK"
	KindCall   LegKind = "CALL"
	KindPut    LegKind = "PUT"
	KindFuture LegKind = "FUTURE"
)

// LegSide represents the direction of a leg.
type LegSide string

const (
	SideLong  LegSide = "LONG"
	SideShort LegSide = "SHORT"
)

// StructureStatus represents the lifecycle state of a structure.
// The lifecycle is linear: BUILDING -> ACTIVE -> CLOSED, no back-transitions.
type StructureStatus string

const (
	StatusBuilding StructureStatus = "BUILDING"
	StatusActive   StructureStatus = "ACTIVE"
	StatusClosed   StructureStatus = "CLOSED"
)

// OperationStatus represents the state of a realized fill.
type OperationStatus string

const (
	OperationOpen   OperationStatus = "OPEN"
	OperationClosed OperationStatus = "CLOSED"
)

// EventStatus represents the state of a roll or exercise event.
type EventStatus string

const (
	EventPending  EventStatus = "PENDING"
	EventExecuted EventStatus = "EXECUTED"
)

// Leg represents one instrument position within a structure.
// Quantity is always positive; direction is carried by Side.
type Leg struct {
	Asset      string          `json:"asset"`
	Kind       LegKind         `json:"kind"`
	Side       LegSide         `json:"side"`
	Quantity   int             `json:"quantity"`
	Strike     decimal.Decimal `json:"strike"`      // options only
	Premium    decimal.Decimal `json:"premium"`     // signed: positive if received
	EntryPrice decimal.Decimal `json:"entry_price"` // stock/future only
}

// Operation represents one realized fill tied to a structure.
type Operation struct {
	Asset     string          `json:"asset"`
	Result    decimal.Decimal `json:"result"` // signed realized P&L
	EntryDate time.Time       `json:"entry_date"`
	ExitDate  *time.Time      `json:"exit_date,omitempty"`
	Status    OperationStatus `json:"status"`
}

// Structure represents a named multi-leg strategy.
// Legs are kept in insertion order; the order matters for display only.
type Structure struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Status                StructureStatus `json:"status"`
	UnderlyingAsset       string          `json:"underlying_asset,omitempty"`
	Legs                  []Leg           `json:"legs"`
	TheoreticalNetPremium decimal.Decimal `json:"theoretical_net_premium"`
	ActivationDate        *time.Time      `json:"activation_date,omitempty"`
	CloseDate             *time.Time      `json:"close_date,omitempty"`
	Operations            []Operation     `json:"operations"`
	CreatedAt             time.Time       `json:"created_at"`
}

// Roll represents the replacement of one set of legs with another
// before expiry.
type Roll struct {
	ID             string           `json:"id"`
	StructureID    string           `json:"structure_id"`
	OriginalLegs   []Leg            `json:"original_legs"`
	NewLegs        []Leg            `json:"new_legs"`
	RollCost       decimal.Decimal  `json:"roll_cost"` // may be negative
	RealizedProfit *decimal.Decimal `json:"realized_profit,omitempty"`
	Date           time.Time        `json:"date"`
	Status         EventStatus      `json:"status"`
}

// ExercisedOption identifies one option contract settled in an exercise.
type ExercisedOption struct {
	Asset    string          `json:"asset"`
	Strike   decimal.Decimal `json:"strike"`
	Quantity int             `json:"quantity"`
}

// Exercise represents an option exercise or assignment event.
type Exercise struct {
	ID          string            `json:"id"`
	StructureID string            `json:"structure_id"`
	Options     []ExercisedOption `json:"options"`
	TotalResult decimal.Decimal   `json:"total_result"` // signed
	TotalCost   decimal.Decimal   `json:"total_cost"`
	Date        time.Time         `json:"date"`
	Status      EventStatus       `json:"status"`
}

// NetPremium returns the sum of leg premiums, the theoretical net premium
// of the structure at creation.
func NetPremium(legs []Leg) decimal.Decimal {
	sum := decimal.Zero
	for _, leg := range legs {
		sum = sum.Add(leg.Premium)
	}
	return sum
}

// IsOption reports whether the leg is an option contract.
func (l Leg) IsOption() bool {
	return l.Kind == KindCall || l.Kind == KindPut
}

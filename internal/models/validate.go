package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "b3-tracker/internal/errors"
)

// NewStructure creates a structure in BUILDING state after validating
// its legs. Operations accrue only once the structure is activated.
func NewStructure(name string, underlying string, legs []Leg) (*Structure, error) {
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	for _, leg := range legs {
		if err := leg.Validate(); err != nil {
			return nil, err
		}
	}
	return &Structure{
		ID:                    uuid.NewString(),
		Name:                  name,
		Status:                StatusBuilding,
		UnderlyingAsset:       underlying,
		Legs:                  legs,
		TheoreticalNetPremium: NetPremium(legs),
		CreatedAt:             time.Now(),
	}, nil
}

// Validate checks leg fields against the domain invariants. The core
// components assume pre-validated legs and never re-validate.
func (l Leg) Validate() error {
	if l.Asset == "" {
		return &apperrors.ValidationError{Field: "asset", Reason: "must not be empty"}
	}
	if l.Quantity <= 0 {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	switch l.Kind {
	case KindStock, KindCall, KindPut, KindFuture:
	default:
		return &apperrors.ValidationError{Field: "kind", Reason: "unknown leg kind " + string(l.Kind)}
	}
	switch l.Side {
	case SideLong, SideShort:
	default:
		return &apperrors.ValidationError{Field: "side", Reason: "unknown leg side " + string(l.Side)}
	}
	return nil
}

// Activate transitions the structure from BUILDING to ACTIVE and stamps
// the activation date.
func (s *Structure) Activate(at time.Time) error {
	if s.Status != StatusBuilding {
		return apperrors.ErrInvalidTransition
	}
	s.Status = StatusActive
	s.ActivationDate = &at
	return nil
}

// Close transitions the structure from ACTIVE to CLOSED and stamps the
// close date.
func (s *Structure) Close(at time.Time) error {
	if s.Status != StatusActive {
		return apperrors.ErrInvalidTransition
	}
	s.Status = StatusClosed
	s.CloseDate = &at
	return nil
}

// AddOperation records a realized fill. Fills accrue only while the
// structure is ACTIVE or CLOSED.
func (s *Structure) AddOperation(op Operation) error {
	if s.Status == StatusBuilding {
		return apperrors.ErrStructureNotActive
	}
	switch op.Status {
	case OperationOpen, OperationClosed:
	default:
		return &apperrors.ValidationError{Field: "status", Reason: "unknown operation status " + string(op.Status)}
	}
	s.Operations = append(s.Operations, op)
	return nil
}

// NewRoll creates a pending roll for a structure.
func NewRoll(structureID string, original, replacement []Leg, cost decimal.Decimal, date time.Time) (*Roll, error) {
	if structureID == "" {
		return nil, &apperrors.ValidationError{Field: "structure_id", Reason: "must not be empty"}
	}
	for _, leg := range append(append([]Leg{}, original...), replacement...) {
		if err := leg.Validate(); err != nil {
			return nil, err
		}
	}
	return &Roll{
		ID:           uuid.NewString(),
		StructureID:  structureID,
		OriginalLegs: original,
		NewLegs:      replacement,
		RollCost:     cost,
		Date:         date,
		Status:       EventPending,
	}, nil
}

// Execute marks the roll as executed with its realized profit, which may
// be nil when nothing was realized by the replacement.
func (r *Roll) Execute(realized *decimal.Decimal) error {
	if r.Status != EventPending {
		return apperrors.ErrInvalidTransition
	}
	r.Status = EventExecuted
	r.RealizedProfit = realized
	return nil
}

// NewExercise creates a pending exercise/assignment event for a structure.
func NewExercise(structureID string, options []ExercisedOption, result, cost decimal.Decimal, date time.Time) (*Exercise, error) {
	if structureID == "" {
		return nil, &apperrors.ValidationError{Field: "structure_id", Reason: "must not be empty"}
	}
	for _, opt := range options {
		if opt.Asset == "" {
			return nil, &apperrors.ValidationError{Field: "options.asset", Reason: "must not be empty"}
		}
		if opt.Quantity <= 0 {
			return nil, &apperrors.ValidationError{Field: "options.quantity", Reason: "must be positive"}
		}
	}
	return &Exercise{
		ID:          uuid.NewString(),
		StructureID: structureID,
		Options:     options,
		TotalResult: result,
		TotalCost:   cost,
		Date:        date,
		Status:      EventPending,
	}, nil
}

// Execute marks the exercise as executed.
func (e *Exercise) Execute() error {
	if e.Status != EventPending {
		return apperrors.ErrInvalidTransition
	}
	e.Status = EventExecuted
	return nil
}

// Package store provides the ledger the presentation layer loads
// structures, rolls and exercises from. The core packages never touch
// it; they take in-memory snapshots read out of here.
package store

import (
	"context"

	"b3-tracker/internal/models"
)

// Ledger defines the interface for ledger persistence.
type Ledger interface {
	// Structures
	SaveStructure(ctx context.Context, structure *models.Structure) error
	GetStructure(ctx context.Context, id string) (*models.Structure, error)
	GetStructures(ctx context.Context, filter StructureFilter) ([]models.Structure, error)

	// Rolls
	SaveRoll(ctx context.Context, roll *models.Roll) error
	GetRolls(ctx context.Context, filter EventFilter) ([]models.Roll, error)

	// Exercises
	SaveExercise(ctx context.Context, exercise *models.Exercise) error
	GetExercises(ctx context.Context, filter EventFilter) ([]models.Exercise, error)

	// Lifecycle
	Close() error
}

// StructureFilter represents filters for querying structures.
type StructureFilter struct {
	Status models.StructureStatus
	Asset  string // base asset; matched against the normalized underlying
	Limit  int
}

// EventFilter represents filters for querying rolls and exercises.
type EventFilter struct {
	StructureID string
	Status      models.EventStatus
	Limit       int
}

// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"b3-tracker/internal/assets"
	apperrors "b3-tracker/internal/errors"
	"b3-tracker/internal/models"
	"b3-tracker/pkg/utils"
)

// SQLiteLedger implements Ledger using SQLite. Legs, operations and
// exercised options are stored as JSON blobs; monetary values are
// stored as exact decimal strings.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger creates a new SQLite-backed ledger.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ledger := &SQLiteLedger{db: db}
	if err := ledger.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return ledger, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteLedger) initSchema() error {
	schema := `
	-- Structures with legs and operations as JSON documents
	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		underlying_asset TEXT,
		legs TEXT NOT NULL,
		theoretical_net_premium TEXT NOT NULL,
		activation_date DATETIME,
		close_date DATETIME,
		operations TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rolls (
		id TEXT PRIMARY KEY,
		structure_id TEXT NOT NULL,
		original_legs TEXT NOT NULL,
		new_legs TEXT NOT NULL,
		roll_cost TEXT NOT NULL,
		realized_profit TEXT,
		date DATETIME NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (structure_id) REFERENCES structures(id)
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		structure_id TEXT NOT NULL,
		options TEXT NOT NULL,
		total_result TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		date DATETIME NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (structure_id) REFERENCES structures(id)
	);

	CREATE INDEX IF NOT EXISTS idx_structures_status ON structures(status);
	CREATE INDEX IF NOT EXISTS idx_rolls_structure ON rolls(structure_id);
	CREATE INDEX IF NOT EXISTS idx_exercises_structure ON exercises(structure_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// writeRetry covers transient SQLITE_BUSY failures under concurrent
// CLI invocations against the same ledger file.
var writeRetry = utils.RetryConfig{
	MaxAttempts:   3,
	InitialDelay:  50 * time.Millisecond,
	MaxDelay:      time.Second,
	BackoffFactor: 2.0,
}

// SaveStructure inserts or replaces a structure.
func (s *SQLiteLedger) SaveStructure(ctx context.Context, structure *models.Structure) error {
	legs, err := json.Marshal(structure.Legs)
	if err != nil {
		return apperrors.NewStoreError("save structure", err)
	}
	operations, err := json.Marshal(structure.Operations)
	if err != nil {
		return apperrors.NewStoreError("save structure", err)
	}

	err = utils.Retry(ctx, writeRetry, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO structures
			(id, name, status, underlying_asset, legs, theoretical_net_premium,
			 activation_date, close_date, operations, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			structure.ID, structure.Name, string(structure.Status),
			structure.UnderlyingAsset, string(legs),
			structure.TheoreticalNetPremium.String(),
			structure.ActivationDate, structure.CloseDate,
			string(operations), structure.CreatedAt,
		)
		return err
	})
	if err != nil {
		return apperrors.NewStoreError("save structure", err)
	}
	return nil
}

// GetStructure fetches a single structure by ID.
func (s *SQLiteLedger) GetStructure(ctx context.Context, id string) (*models.Structure, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, underlying_asset, legs, theoretical_net_premium,
		       activation_date, close_date, operations, created_at
		FROM structures WHERE id = ?`, id)

	structure, err := scanStructure(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrStructureNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get structure", err)
	}
	return structure, nil
}

// GetStructures fetches structures matching the filter. Asset matching
// uses the shared base-asset normalization against the structure's
// underlying asset.
func (s *SQLiteLedger) GetStructures(ctx context.Context, filter StructureFilter) ([]models.Structure, error) {
	query := `
		SELECT id, name, status, underlying_asset, legs, theoretical_net_premium,
		       activation_date, close_date, operations, created_at
		FROM structures`
	var args []interface{}
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get structures", err)
	}
	defer rows.Close()

	var structures []models.Structure
	for rows.Next() {
		structure, err := scanStructure(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("get structures", err)
		}
		if filter.Asset != "" && assets.Underlying(structure.UnderlyingAsset) != assets.Underlying(filter.Asset) {
			continue
		}
		structures = append(structures, *structure)
		if filter.Limit > 0 && len(structures) >= filter.Limit {
			break
		}
	}
	return structures, rows.Err()
}

// SaveRoll inserts or replaces a roll.
func (s *SQLiteLedger) SaveRoll(ctx context.Context, roll *models.Roll) error {
	original, err := json.Marshal(roll.OriginalLegs)
	if err != nil {
		return apperrors.NewStoreError("save roll", err)
	}
	replacement, err := json.Marshal(roll.NewLegs)
	if err != nil {
		return apperrors.NewStoreError("save roll", err)
	}
	var realized interface{}
	if roll.RealizedProfit != nil {
		realized = roll.RealizedProfit.String()
	}

	err = utils.Retry(ctx, writeRetry, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO rolls
			(id, structure_id, original_legs, new_legs, roll_cost, realized_profit, date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			roll.ID, roll.StructureID, string(original), string(replacement),
			roll.RollCost.String(), realized, roll.Date, string(roll.Status),
		)
		return err
	})
	if err != nil {
		return apperrors.NewStoreError("save roll", err)
	}
	return nil
}

// GetRolls fetches rolls matching the filter, oldest first.
func (s *SQLiteLedger) GetRolls(ctx context.Context, filter EventFilter) ([]models.Roll, error) {
	query, args := eventQuery(`
		SELECT id, structure_id, original_legs, new_legs, roll_cost, realized_profit, date, status
		FROM rolls`, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get rolls", err)
	}
	defer rows.Close()

	var rolls []models.Roll
	for rows.Next() {
		var (
			roll     models.Roll
			original string
			newLegs  string
			cost     string
			realized sql.NullString
			status   string
		)
		if err := rows.Scan(&roll.ID, &roll.StructureID, &original, &newLegs,
			&cost, &realized, &roll.Date, &status); err != nil {
			return nil, apperrors.NewStoreError("get rolls", err)
		}
		if err := json.Unmarshal([]byte(original), &roll.OriginalLegs); err != nil {
			return nil, apperrors.NewStoreError("get rolls", err)
		}
		if err := json.Unmarshal([]byte(newLegs), &roll.NewLegs); err != nil {
			return nil, apperrors.NewStoreError("get rolls", err)
		}
		roll.RollCost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, apperrors.NewStoreError("get rolls", err)
		}
		if realized.Valid {
			d, err := decimal.NewFromString(realized.String)
			if err != nil {
				return nil, apperrors.NewStoreError("get rolls", err)
			}
			roll.RealizedProfit = &d
		}
		roll.Status = models.EventStatus(status)
		rolls = append(rolls, roll)
	}
	return rolls, rows.Err()
}

// SaveExercise inserts or replaces an exercise.
func (s *SQLiteLedger) SaveExercise(ctx context.Context, exercise *models.Exercise) error {
	options, err := json.Marshal(exercise.Options)
	if err != nil {
		return apperrors.NewStoreError("save exercise", err)
	}

	err = utils.Retry(ctx, writeRetry, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO exercises
			(id, structure_id, options, total_result, total_cost, date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			exercise.ID, exercise.StructureID, string(options),
			exercise.TotalResult.String(), exercise.TotalCost.String(),
			exercise.Date, string(exercise.Status),
		)
		return err
	})
	if err != nil {
		return apperrors.NewStoreError("save exercise", err)
	}
	return nil
}

// GetExercises fetches exercises matching the filter, oldest first.
func (s *SQLiteLedger) GetExercises(ctx context.Context, filter EventFilter) ([]models.Exercise, error) {
	query, args := eventQuery(`
		SELECT id, structure_id, options, total_result, total_cost, date, status
		FROM exercises`, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get exercises", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var (
			exercise models.Exercise
			options  string
			result   string
			cost     string
			status   string
		)
		if err := rows.Scan(&exercise.ID, &exercise.StructureID, &options,
			&result, &cost, &exercise.Date, &status); err != nil {
			return nil, apperrors.NewStoreError("get exercises", err)
		}
		if err := json.Unmarshal([]byte(options), &exercise.Options); err != nil {
			return nil, apperrors.NewStoreError("get exercises", err)
		}
		exercise.TotalResult, err = decimal.NewFromString(result)
		if err != nil {
			return nil, apperrors.NewStoreError("get exercises", err)
		}
		exercise.TotalCost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, apperrors.NewStoreError("get exercises", err)
		}
		exercise.Status = models.EventStatus(status)
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

// eventQuery appends the shared roll/exercise filter clauses.
func eventQuery(base string, filter EventFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.StructureID != "" {
		clauses = append(clauses, "structure_id = ?")
		args = append(args, filter.StructureID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	for i, clause := range clauses {
		if i == 0 {
			base += " WHERE " + clause
		} else {
			base += " AND " + clause
		}
	}
	base += " ORDER BY date"
	if filter.Limit > 0 {
		base += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return base, args
}

// scanner abstracts sql.Row and sql.Rows for scanStructure.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStructure(row scanner) (*models.Structure, error) {
	var (
		structure  models.Structure
		status     string
		underlying sql.NullString
		legs       string
		premium    string
		activation sql.NullTime
		closeDate  sql.NullTime
		operations string
	)
	err := row.Scan(&structure.ID, &structure.Name, &status, &underlying,
		&legs, &premium, &activation, &closeDate, &operations, &structure.CreatedAt)
	if err != nil {
		return nil, err
	}
	structure.Status = models.StructureStatus(status)
	structure.UnderlyingAsset = underlying.String
	if err := json.Unmarshal([]byte(legs), &structure.Legs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(operations), &structure.Operations); err != nil {
		return nil, err
	}
	structure.TheoreticalNetPremium, err = decimal.NewFromString(premium)
	if err != nil {
		return nil, err
	}
	if activation.Valid {
		t := activation.Time
		structure.ActivationDate = &t
	}
	if closeDate.Valid {
		t := closeDate.Time
		structure.CloseDate = &t
	}
	return &structure, nil
}

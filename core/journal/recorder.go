package journal

import (
	"context"
	"fmt"

	"shaper-sync/core/database"

	"gorm.io/gorm"
)

const eventBatchSize = 100

// Recorder writes cycle runs and circuit events.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a recorder on db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Migrate creates or updates the journal tables.
func (r *Recorder) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&CycleRun{}, &CircuitEvent{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// Record stores a run and its events atomically.
func (r *Recorder) Record(ctx context.Context, run *CycleRun, events []CircuitEvent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		for i := range events {
			events[i].CycleID = run.CycleID
		}
		return tx.CreateInBatches(events, eventBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record cycle %s: %w", run.CycleID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *Recorder) RecentRuns(ctx context.Context, limit int) ([]CycleRun, error) {
	var runs []CycleRun
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle runs: %w", err)
	}
	return runs, nil
}

// CircuitHistory returns up to limit events of a circuit, newest first.
func (r *Recorder) CircuitHistory(ctx context.Context, circuit string, limit int) ([]CircuitEvent, error) {
	var events []CircuitEvent
	err := r.db.WithContext(ctx).
		Where("circuit = ?", circuit).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", circuit, err)
	}
	return events, nil
}

// CheckSchema reports, per journal table, the model columns missing from the database.
func (r *Recorder) CheckSchema() (map[string][]string, error) {
	report := make(map[string][]string)

	for _, model := range []any{&CycleRun{}, &CircuitEvent{}} {
		stmt := &gorm.Statement{DB: r.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse journal model: %w", err)
		}

		missing, err := database.MissingColumns(r.db, stmt.Schema.Table, stmt.Schema.DBNames)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report[stmt.Schema.Table] = missing
		}
	}

	return report, nil
}

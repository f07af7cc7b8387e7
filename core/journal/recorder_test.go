package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shaper-sync/core/database"
	"shaper-sync/core/journal"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupRecorder(t *testing.T) (*journal.Recorder, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	r := journal.NewRecorder(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r, db
}

func TestRecorder_RecordAndQuery(t *testing.T) {
	r, _ := setupRecorder(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := &journal.CycleRun{CycleID: "c1", StartedAt: now, FinishedAt: now, Status: journal.StatusOK, Created: 1}
	require.NoError(t, r.Record(ctx, first, []journal.CircuitEvent{
		{Circuit: "alice", Router: "r1", Action: journal.ActionCreated},
	}))

	second := &journal.CycleRun{CycleID: "c2", StartedAt: now, FinishedAt: now, Status: journal.StatusOK, Updated: 1}
	require.NoError(t, r.Record(ctx, second, []journal.CircuitEvent{
		{Circuit: "alice", Router: "r1", Action: journal.ActionUpdated, Detail: "ipv4: old=10.0.0.5 new=10.0.0.6"},
		{Circuit: "bob", Action: journal.ActionRemoved},
	}))

	runs, err := r.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c2", runs[0].CycleID)
	assert.Equal(t, "c1", runs[1].CycleID)

	history, err := r.CircuitHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, journal.ActionUpdated, history[0].Action)
	assert.Equal(t, "c2", history[0].CycleID)
	assert.Equal(t, journal.ActionCreated, history[1].Action)

	limited, err := r.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecorder_DuplicateCycleRollsBack(t *testing.T) {
	r, db := setupRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, &journal.CycleRun{CycleID: "dup"}, nil))
	err := r.Record(ctx, &journal.CycleRun{CycleID: "dup"}, []journal.CircuitEvent{{Circuit: "x", Action: journal.ActionCreated}})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&journal.CircuitEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecorder_CheckSchema(t *testing.T) {
	r, db := setupRecorder(t)

	report, err := r.CheckSchema()
	require.NoError(t, err)
	assert.Empty(t, report)

	require.NoError(t, db.Migrator().DropTable(&journal.CircuitEvent{}))
	report, err = r.CheckSchema()
	require.NoError(t, err)
	assert.Contains(t, report["circuit_events"], "action")
	assert.NotContains(t, report, "cycle_runs")
}

func TestRecorder_MySQLInsertFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `cycle_runs`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	r := journal.NewRecorder(db)
	err = r.Record(context.Background(), &journal.CycleRun{CycleID: "c1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

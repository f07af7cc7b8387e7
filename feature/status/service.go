package status

import (
	"context"
	"errors"

	"shaper-sync/core/cycle"
	"shaper-sync/core/journal"

	"go.uber.org/zap"
)

// ErrJournalDisabled is returned when history is requested without a database.
var ErrJournalDisabled = errors.New("cycle journal is disabled")

// Runner is the part of cycle.Runner the API drives.
type Runner interface {
	Last() *cycle.Report
	Trigger(ctx context.Context, opts cycle.Options) (*cycle.Report, error)
}

// History is the part of journal.Recorder the API reads.
type History interface {
	RecentRuns(ctx context.Context, limit int) ([]journal.CycleRun, error)
	CheckSchema() (map[string][]string, error)
}

// JournalState describes the journal database.
type JournalState struct {
	Enabled        bool                `json:"enabled"`
	Healthy        bool                `json:"healthy"`
	MissingColumns map[string][]string `json:"missing_columns,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// State is the payload of GET /status.
type State struct {
	Last    *cycle.Report `json:"last"`
	Journal JournalState  `json:"journal"`
}

// Service answers status queries.
type Service struct {
	runner  Runner
	history History
	logger  *zap.Logger
}

// NewService creates a status service. history may be nil.
func NewService(runner Runner, history History, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runner: runner, history: history, logger: logger}
}

// State returns the last cycle and the journal health.
func (s *Service) State() State {
	st := State{Last: s.runner.Last()}
	if s.history == nil {
		return st
	}

	st.Journal.Enabled = true
	missing, err := s.history.CheckSchema()
	if err != nil {
		st.Journal.Error = err.Error()
		return st
	}
	st.Journal.MissingColumns = missing
	st.Journal.Healthy = len(missing) == 0
	return st
}

// RunNow triggers a cycle and waits for it.
func (s *Service) RunNow(ctx context.Context, dryRun bool) (*cycle.Report, error) {
	return s.runner.Trigger(ctx, cycle.Options{DryRun: dryRun})
}

// Runs returns the most recent journaled cycles.
func (s *Service) Runs(ctx context.Context, limit int) ([]journal.CycleRun, error) {
	if s.history == nil {
		return nil, ErrJournalDisabled
	}
	return s.history.RecentRuns(ctx, limit)
}

package circuits

import (
	"context"
	"errors"
	"strings"

	"shaper-sync/core/inventory"
	"shaper-sync/core/journal"

	"go.uber.org/zap"
)

// ErrNotFound is returned for an unknown circuit name.
var ErrNotFound = errors.New("circuit not found")

const historyLimit = 50

// History is the part of journal.Recorder the circuit view reads.
type History interface {
	CircuitHistory(ctx context.Context, circuit string, limit int) ([]journal.CircuitEvent, error)
}

// Filter narrows a circuit listing. Empty fields match everything.
type Filter struct {
	ParentNode string
	Search     string
}

func (f Filter) match(r *inventory.Record) bool {
	if f.ParentNode != "" && r.ParentNode != f.ParentNode {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.CircuitName), q) &&
			!strings.Contains(r.IPv4, q) &&
			!strings.Contains(strings.ToLower(r.MAC), q) {
			return false
		}
	}
	return true
}

// Detail is one circuit with its journaled events.
type Detail struct {
	Record *inventory.Record      `json:"record"`
	Events []journal.CircuitEvent `json:"events,omitempty"`
}

// Service reads the inventory file on every request so the view always
// matches what the shaper sees.
type Service struct {
	inventoryFile string
	history       History
	logger        *zap.Logger
}

// NewService creates a circuit service. history may be nil.
func NewService(inventoryFile string, history History, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventoryFile: inventoryFile, history: history, logger: logger}
}

// List returns the matching records in file order.
func (s *Service) List(f Filter) ([]*inventory.Record, error) {
	inv, err := inventory.Load(s.inventoryFile)
	if err != nil {
		return nil, err
	}

	out := make([]*inventory.Record, 0, inv.Len())
	for _, r := range inv.Records() {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns one record and, when the journal is enabled, its recent events.
// A journal failure is logged and the record is still returned.
func (s *Service) Get(ctx context.Context, name string) (*Detail, error) {
	inv, err := inventory.Load(s.inventoryFile)
	if err != nil {
		return nil, err
	}
	rec, ok := inv.Get(name)
	if !ok {
		return nil, ErrNotFound
	}

	d := &Detail{Record: rec}
	if s.history != nil {
		events, err := s.history.CircuitHistory(ctx, name, historyLimit)
		if err != nil {
			s.logger.Warn("Failed to read circuit history", zap.String("circuit", name), zap.Error(err))
		}
		d.Events = events
	}
	return d, nil
}

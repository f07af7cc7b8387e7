package cycle

import (
	"strings"
	"time"

	"shaper-sync/core/journal"
	"shaper-sync/core/reconcile"
)

// Report summarises one cycle.
type Report struct {
	CycleID         string                     `json:"cycle_id"`
	StartedAt       time.Time                  `json:"started_at"`
	FinishedAt      time.Time                  `json:"finished_at"`
	DryRun          bool                       `json:"dry_run"`
	OK              bool                       `json:"ok"`
	Error           string                     `json:"error,omitempty"`
	Dirty           bool                       `json:"dirty"`
	TopologyChanged bool                       `json:"topology_changed"`
	Routers         int                        `json:"routers"`
	FailedRouters   []string                   `json:"failed_routers"`
	Records         int                        `json:"records"`
	Observed        int                        `json:"observed"`
	Created         []string                   `json:"created"`
	Updated         []reconcile.FieldChange    `json:"updated"`
	Removed         []string                   `json:"removed"`
	Preserved       []string                   `json:"preserved"`
	Skipped         []reconcile.SkippedSession `json:"skipped"`
	Snapshot        string                     `json:"snapshot,omitempty"`
}

// Written reports whether the cycle had something to persist.
func (r *Report) Written() bool {
	return r.Dirty || r.TopologyChanged
}

// run converts the report into a journal row.
func (r *Report) run() *journal.CycleRun {
	status := journal.StatusOK
	if !r.OK {
		status = journal.StatusFailed
	}
	return &journal.CycleRun{
		CycleID:       r.CycleID,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Status:        status,
		DryRun:        r.DryRun,
		Dirty:         r.Dirty,
		Routers:       r.Routers,
		RoutersFailed: len(r.FailedRouters),
		Observed:      r.Observed,
		Created:       len(r.Created),
		Updated:       len(r.Updated),
		Removed:       len(r.Removed),
		Preserved:     len(r.Preserved),
		Skipped:       len(r.Skipped),
		Error:         r.Error,
	}
}

// events converts the per-circuit outcomes into journal events.
func (r *Report) events(routerOf map[string]string) []journal.CircuitEvent {
	var events []journal.CircuitEvent
	for _, c := range r.Created {
		events = append(events, journal.CircuitEvent{Circuit: c, Router: routerOf[c], Action: journal.ActionCreated})
	}
	for _, u := range r.Updated {
		events = append(events, journal.CircuitEvent{
			Circuit: u.Circuit,
			Router:  u.Router,
			Action:  journal.ActionUpdated,
			Detail:  strings.Join(u.Fields, "; "),
		})
	}
	for _, c := range r.Removed {
		events = append(events, journal.CircuitEvent{Circuit: c, Action: journal.ActionRemoved})
	}
	for _, c := range r.Preserved {
		events = append(events, journal.CircuitEvent{Circuit: c, Action: journal.ActionPreserved})
	}
	for _, s := range r.Skipped {
		events = append(events, journal.CircuitEvent{
			Circuit: s.Circuit,
			Router:  s.Router,
			Action:  journal.ActionSkipped,
			Detail:  "address " + s.IPv4 + " held by " + s.Owner,
		})
	}
	return events
}

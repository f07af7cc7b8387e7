package journal

import "time"

// Cycle outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Circuit event actions.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionRemoved   = "removed"
	ActionPreserved = "preserved"
	ActionSkipped   = "skipped"
)

// CycleRun is one reconcile cycle.
type CycleRun struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	CycleID       string    `gorm:"size:36;uniqueIndex" json:"cycle_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Status        string    `gorm:"size:16" json:"status"`
	DryRun        bool      `json:"dry_run"`
	Dirty         bool      `json:"dirty"`
	Routers       int       `json:"routers"`
	RoutersFailed int       `json:"routers_failed"`
	Observed      int       `json:"observed"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Removed       int       `json:"removed"`
	Preserved     int       `json:"preserved"`
	Skipped       int       `json:"skipped"`
	Error         string    `gorm:"type:text" json:"error,omitempty"`
}

func (CycleRun) TableName() string {
	return "cycle_runs"
}

// CircuitEvent is one change applied to, or refused for, a circuit.
type CircuitEvent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CycleID   string    `gorm:"size:36;index" json:"cycle_id"`
	Circuit   string    `gorm:"size:128;index" json:"circuit"`
	Router    string    `gorm:"size:64" json:"router,omitempty"`
	Action    string    `gorm:"size:16" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (CircuitEvent) TableName() string {
	return "circuit_events"
}

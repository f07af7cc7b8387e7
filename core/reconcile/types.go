package reconcile

import (
	"context"

	"shaper-sync/core/config"
	"shaper-sync/core/routeros"
)

// Session is one live subscriber observed on a router, already converted
// into the shape of an inventory record.
type Session struct {
	// Code is the circuit and device name, e.g. "alice" or "HS-AABBCCDDEEFF".
	Code string
	// Router is the router the session was observed on.
	Router string
	// ParentNode is the topology node the circuit attaches to.
	ParentNode string
	// ParentType is the topology type of ParentNode (site or plan).
	ParentType string

	MAC  string
	IPv4 string

	DownloadMinMbps int
	UploadMinMbps   int
	DownloadMaxMbps int
	UploadMaxMbps   int

	// Comment is written on create and refreshed unless the record is static.
	Comment string
}

// Source turns one service's router resources into sessions.
type Source interface {
	// Name identifies the source in logs, e.g. "pppoe".
	Name() string
	// Enabled reports whether the router has this service turned on.
	Enabled(router config.Router) bool
	// ServiceNode is the baseline topology node of the service on a router.
	ServiceNode(router string) string
	// Collect fetches and converts the service's sessions.
	// Each returned session must already have its ParentNode set.
	Collect(ctx context.Context, session routeros.Session, router config.Router) ([]Session, error)
}

// FieldChange is an applied update of one circuit.
type FieldChange struct {
	Circuit string   `json:"circuit"`
	Router  string   `json:"router"`
	Fields  []string `json:"fields"`
}

// SkippedSession is a session refused by the duplicate address guard.
type SkippedSession struct {
	Circuit string `json:"circuit"`
	Router  string `json:"router"`
	IPv4    string `json:"ipv4"`
	// Owner is the circuit already holding the address.
	Owner string `json:"owner"`
}

// Result is the outcome of merging sessions into an inventory.
type Result struct {
	// Observed holds every session code that has a record after the merge.
	Observed map[string]struct{}
	// Changed is true when the inventory was mutated.
	Changed bool

	Created []string
	Updated []FieldChange
	Skipped []SkippedSession
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{Observed: make(map[string]struct{})}
}

// Absorb folds other into r.
func (r *Result) Absorb(other *Result) {
	if other == nil {
		return
	}
	for code := range other.Observed {
		r.Observed[code] = struct{}{}
	}
	r.Changed = r.Changed || other.Changed
	r.Created = append(r.Created, other.Created...)
	r.Updated = append(r.Updated, other.Updated...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

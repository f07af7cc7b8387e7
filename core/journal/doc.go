// Package journal persists an audit trail of reconcile cycles with GORM.
//
// Every cycle writes one cycle_runs row with its counters, plus one
// circuit_events row per circuit that was created, updated, removed,
// preserved by the static comment, or skipped by the duplicate address guard.
// The journal is optional and write failures are only logged by the caller.
package journal

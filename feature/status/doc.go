// Package status exposes the reconcile loop over HTTP: a liveness check, the
// last cycle report, manual cycle triggers and the journaled history.
//
// Routes:
//
//	GET  /healthz
//	GET  /status
//	POST /status/cycle?dry_run=true
//	GET  /status/history?limit=20
package status

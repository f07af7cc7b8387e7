// Package server holds the HTTP status server configuration.
//
// The sync daemon optionally exposes a small Fiber API (health, last cycle
// status, manual trigger, inventory lookups). This package only defines its
// settings; cmd/start.go wires the app, middleware and features.
//
// # Configuration
//
// The Config struct defines whether the API runs, its port and the API key
// checked by core/middleware/auth.
package server

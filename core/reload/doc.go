// Package reload runs the configured shaper reload command after a cycle
// persisted new inventory or topology files. Failures are returned to the
// caller, which logs them without failing the cycle.
package reload

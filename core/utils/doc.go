// Package utils provides common utility functions for shaper-sync.
// It includes helpers for RouterOS value conversion, MAC formatting and
// atomic file replacement that don't fit into domain-specific packages.
package utils

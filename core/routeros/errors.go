package routeros

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a session is used after Close.
var ErrNotConnected = errors.New("router session is closed")

// ConnectionError means the router could not be reached or refused the login.
type ConnectionError struct {
	Router  string
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to router %s (%s) failed: %v", e.Router, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ResourceError means a single resource path could not be fetched.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsResourceError reports whether err is or wraps a ResourceError.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

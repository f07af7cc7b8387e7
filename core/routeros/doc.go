// Package routeros is the boundary to MikroTik routers.
//
// It wraps the go-routeros API client behind two small interfaces, Dialer and
// Session, so the reconcile core never sees the wire protocol. Everything a
// session returns is an untyped Row; feature packages convert rows into typed
// per-service values right after the call.
//
// # Errors
//
//   - *ConnectionError: the router is unreachable or rejected the login. The
//     cycle skips that router.
//   - *ResourceError: one resource path failed. The caller treats that
//     resource as empty for the current pass.
//
// Mocks for both interfaces live in core/routeros/mocks.
package routeros

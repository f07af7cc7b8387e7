// Package middleware contains HTTP middleware for the status API.
//
// # Components
//
//   - auth: API key validation. An empty key leaves the API open, and a
//     skip function can exempt health checks.
//   - rayid: tags every request with a ray id, stored in Fiber locals and
//     echoed in the X-Ray-ID response header for log correlation.
//
// RayID must be registered first so that every later log line carries the id.
package middleware

// Package circuits serves a read-only view of ShapedDevices.csv.
//
//	GET /circuits?parent=PPP-r1&q=alice
//	GET /circuits/:name
//
// The detail route adds the journaled events of the circuit when the
// database is enabled.
package circuits

// Package archive keeps point-in-time copies of ShapedDevices.csv and
// network.json in S3/MinIO.
//
// Each dirty cycle produces one snapshot folder named after the UTC time of
// the upload:
//
//	snapshots/20261014T093000Z/ShapedDevices.csv
//	snapshots/20261014T093000Z/network.json
//
// Only the newest Keep snapshots are retained. Archive failures never fail a
// cycle; the caller logs them.
package archive

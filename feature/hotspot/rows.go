package hotspot

import "shaper-sync/core/routeros"

// PathActive lists logged-in hotspot users.
const PathActive = "/ip/hotspot/active"

// Active is a /ip/hotspot/active row.
type Active struct {
	User    string
	MAC     string
	Address string
}

func activeFromRow(r routeros.Row) Active {
	return Active{
		User:    r["user"],
		MAC:     r["mac-address"],
		Address: r["address"],
	}
}

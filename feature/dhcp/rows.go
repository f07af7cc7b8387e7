package dhcp

import (
	"shaper-sync/core/routeros"
	"shaper-sync/core/utils"
)

// PathLease lists DHCP server leases.
const PathLease = "/ip/dhcp-server/lease"

// Lease is a /ip/dhcp-server/lease row.
type Lease struct {
	MAC      string
	Address  string
	HostName string
	Server   string
	Disabled bool
}

func leaseFromRow(r routeros.Row) Lease {
	addr := r["active-address"]
	if addr == "" {
		addr = r["address"]
	}
	return Lease{
		MAC:      r["mac-address"],
		Address:  addr,
		HostName: r["host-name"],
		Server:   r["server"],
		Disabled: utils.ToBool(r["disabled"]),
	}
}

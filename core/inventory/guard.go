package inventory

// HasConflict reports whether a record other than excludingKey already holds
// ipv4. The empty address never conflicts.
func (inv *Inventory) HasConflict(ipv4, excludingKey string) bool {
	_, ok := inv.AddressOwner(ipv4, excludingKey)
	return ok
}

// AddressOwner returns the circuit name holding ipv4, ignoring excludingKey.
func (inv *Inventory) AddressOwner(ipv4, excludingKey string) (string, bool) {
	if ipv4 == "" {
		return "", false
	}
	for _, k := range inv.keys {
		if k == excludingKey {
			continue
		}
		if inv.records[k].IPv4 == ipv4 {
			return k, true
		}
	}
	return "", false
}

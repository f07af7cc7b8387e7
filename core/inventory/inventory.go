package inventory

// Inventory is the set of records keyed by circuit name, kept in first-seen order.
type Inventory struct {
	keys    []string
	records map[string]*Record
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{records: make(map[string]*Record)}
}

// Len returns the number of records.
func (inv *Inventory) Len() int {
	return len(inv.keys)
}

// Get returns the record for a circuit name.
func (inv *Inventory) Get(name string) (*Record, bool) {
	r, ok := inv.records[name]
	return r, ok
}

// Put inserts or replaces a record. New keys are appended to the order.
func (inv *Inventory) Put(r *Record) {
	if _, ok := inv.records[r.CircuitName]; !ok {
		inv.keys = append(inv.keys, r.CircuitName)
	}
	inv.records[r.CircuitName] = r
}

// Delete removes a record, keeping the order of the others.
func (inv *Inventory) Delete(name string) bool {
	if _, ok := inv.records[name]; !ok {
		return false
	}
	delete(inv.records, name)
	for i, k := range inv.keys {
		if k == name {
			inv.keys = append(inv.keys[:i], inv.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the circuit names in order.
func (inv *Inventory) Keys() []string {
	out := make([]string, len(inv.keys))
	copy(out, inv.keys)
	return out
}

// Records returns the records in order.
func (inv *Inventory) Records() []*Record {
	out := make([]*Record, 0, len(inv.keys))
	for _, k := range inv.keys {
		out = append(out, inv.records[k])
	}
	return out
}

// HasID reports whether any record already uses id as circuit or device id.
func (inv *Inventory) HasID(id string) bool {
	for _, r := range inv.records {
		if r.CircuitID == id || r.DeviceID == id {
			return true
		}
	}
	return false
}

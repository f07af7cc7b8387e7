package reconcile

import (
	"shaper-sync/core/identity"
	"shaper-sync/core/inventory"

	"go.uber.org/zap"
)

// Engine merges live sessions into an inventory.
type Engine struct {
	inv    *inventory.Inventory
	ids    *identity.Allocator
	logger *zap.Logger
}

// NewEngine creates an engine mutating inv in place.
func NewEngine(inv *inventory.Inventory, ids *identity.Allocator, logger *zap.Logger) *Engine {
	if ids == nil {
		ids = identity.NewAllocator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{inv: inv, ids: ids, logger: logger}
}

// Merge applies sessions in order. New codes get a record with fresh ids
// unless their address is already held by another circuit. Existing records
// are rewritten only when a field actually differs. Circuits that trade
// addresses within the same batch move together.
func (e *Engine) Merge(sessions []Session) *Result {
	res := NewResult()
	moves := e.planMoves(sessions)
	reserved := make(map[string]string, len(moves))
	for code, ip := range moves {
		if ip != "" {
			reserved[ip] = code
		}
	}

	for i := range sessions {
		s := &sessions[i]
		if s.Code == "" {
			continue
		}

		rec, exists := e.inv.Get(s.Code)
		if !exists {
			if owner, conflict := e.addressTaken(s.IPv4, s.Code, reserved); conflict {
				e.skip(res, s, owner, "create")
				continue
			}
			rec = e.create(s)
			res.Created = append(res.Created, s.Code)
			res.Changed = true
		}
		res.Observed[s.Code] = struct{}{}

		next := *rec
		next.ParentNode = s.ParentNode
		next.MAC = s.MAC
		next.IPv4 = s.IPv4
		next.DownloadMinMbps = s.DownloadMinMbps
		next.UploadMinMbps = s.UploadMinMbps
		next.DownloadMaxMbps = s.DownloadMaxMbps
		next.UploadMaxMbps = s.UploadMaxMbps
		if !rec.IsStatic() && s.Comment != "" {
			next.Comment = s.Comment
		}

		if next.IPv4 != rec.IPv4 {
			if ip, planned := moves[s.Code]; !planned || ip != next.IPv4 {
				if owner, conflict := e.addressTaken(next.IPv4, s.Code, reserved); conflict {
					e.skip(res, s, owner, "update")
					continue
				}
			}
		}

		changes := rec.Diff(&next)
		if len(changes) == 0 {
			continue
		}

		*rec = next
		res.Changed = true
		if exists {
			res.Updated = append(res.Updated, FieldChange{Circuit: s.Code, Router: s.Router, Fields: changes})
			e.logger.Info("Updated circuit",
				zap.String("circuit", s.Code),
				zap.String("router", s.Router),
				zap.Strings("changes", changes),
			)
		}
	}

	return res
}

// planMoves returns the existing circuits whose address change can be applied
// even though the target is currently held: every holder is itself leaving
// for another address in this batch. Moves onto an address that stays put, or
// that two circuits want, are left to the regular guard.
func (e *Engine) planMoves(sessions []Session) map[string]string {
	moves := make(map[string]string)
	seen := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		if s.Code == "" || seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		if rec, ok := e.inv.Get(s.Code); ok && rec.IPv4 != s.IPv4 {
			moves[s.Code] = s.IPv4
		}
	}

	for {
		wanted := make(map[string]int, len(moves))
		for _, ip := range moves {
			if ip != "" {
				wanted[ip]++
			}
		}

		var dropped []string
		for code, ip := range moves {
			if ip == "" {
				continue
			}
			if wanted[ip] > 1 {
				dropped = append(dropped, code)
				continue
			}
			if owner, held := e.inv.AddressOwner(ip, code); held {
				if _, leaving := moves[owner]; !leaving {
					dropped = append(dropped, code)
				}
			}
		}
		if len(dropped) == 0 {
			return moves
		}
		for _, code := range dropped {
			delete(moves, code)
		}
	}
}

// addressTaken reports the circuit holding ip, or about to take it through a
// planned move, other than code.
func (e *Engine) addressTaken(ip, code string, reserved map[string]string) (string, bool) {
	if owner, held := e.inv.AddressOwner(ip, code); held {
		return owner, true
	}
	if owner, ok := reserved[ip]; ok && owner != code {
		return owner, true
	}
	return "", false
}

func (e *Engine) create(s *Session) *inventory.Record {
	taken := func(id string) bool { return e.inv.HasID(id) }
	circuitID := e.ids.Next(taken)
	deviceID := e.ids.Next(func(id string) bool { return id == circuitID || taken(id) })

	rec := &inventory.Record{
		CircuitID:   circuitID,
		CircuitName: s.Code,
		DeviceID:    deviceID,
		DeviceName:  s.Code,
		IPv4:        s.IPv4,
		MAC:         s.MAC,
		ParentNode:  s.ParentNode,
		Comment:     s.Comment,
	}
	e.inv.Put(rec)

	e.logger.Info("Created circuit",
		zap.String("circuit", s.Code),
		zap.String("router", s.Router),
		zap.String("circuit_id", circuitID),
		zap.String("device_id", deviceID),
		zap.String("ipv4", s.IPv4),
	)
	return rec
}

func (e *Engine) skip(res *Result, s *Session, owner, op string) {
	res.Skipped = append(res.Skipped, SkippedSession{
		Circuit: s.Code,
		Router:  s.Router,
		IPv4:    s.IPv4,
		Owner:   owner,
	})
	e.logger.Warn("Address already assigned to another circuit, skipping session",
		zap.String("circuit", s.Code),
		zap.String("router", s.Router),
		zap.String("ipv4", s.IPv4),
		zap.String("owner", owner),
		zap.String("operation", op),
	)
}

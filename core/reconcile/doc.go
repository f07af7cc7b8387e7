// Package reconcile merges live router sessions into the shaped device
// inventory.
//
// # Architecture
//
//  1. Source: service-specific adapters (feature/pppoe, feature/hotspot,
//     feature/dhcp) fetch router resources, convert untyped rows into typed
//     rows and then into Session values with rates and parent node resolved.
//
//  2. Engine: Merge applies sessions to the inventory. Unknown codes are
//     created with fresh ids behind the duplicate address guard; known codes
//     are updated field by field and only written when something differs.
//
//  3. Prune: once per cycle, after every router, records not observed are
//     deleted unless their comment is "static" (any case).
//
// # Failure Interaction
//
// An unreachable router contributes no observed codes, so its non-static
// records are pruned in that cycle. Operators protect circuits that must
// survive router outages with the static comment.
//
// # Usage
//
//	engine := reconcile.NewEngine(inv, identity.NewAllocator(), logger)
//	total := reconcile.NewResult()
//	for _, src := range sources {
//	    sessions, _ := src.Collect(ctx, session, router)
//	    total.Absorb(engine.Merge(sessions))
//	}
//	pruned := reconcile.Prune(inv, total.Observed, logger)
package reconcile

// Package cycle drives reconcile cycles.
//
// A cycle loads the routers file, inventory and topology fresh from disk,
// processes routers one after the other (dial, baseline topology, every
// enabled source), prunes once, writes what changed and then runs the
// post-write actions: shaper reload, snapshot archive and journal.
//
// # Failure Handling
//
//   - Router unreachable or lost mid-pass: the router is skipped, the cycle
//     continues. Its non-static records are pruned.
//   - Config, inventory or topology load failure, or a *PersistenceError on
//     write: the cycle fails and Run retries after ErrorRetryInterval.
//   - Reload, archive and journal failures are logged only.
//
// # Triggers
//
// Run drives the periodic loop. Trigger is used for manual cycles (CLI,
// HTTP) and coalesces concurrent requests into one execution.
package cycle

package reconcile

import (
	"shaper-sync/core/inventory"

	"go.uber.org/zap"
)

// PruneResult lists what a prune sweep did.
type PruneResult struct {
	Removed   []string
	Preserved []string
}

// Changed reports whether any record was deleted.
func (p PruneResult) Changed() bool {
	return len(p.Removed) > 0
}

// Prune deletes every record whose key was not observed, except static ones.
// It must run once per cycle, after every router and source.
func Prune(inv *inventory.Inventory, observed map[string]struct{}, logger *zap.Logger) PruneResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	var res PruneResult
	for _, rec := range inv.Records() {
		if _, ok := observed[rec.CircuitName]; ok {
			continue
		}
		if rec.IsStatic() {
			res.Preserved = append(res.Preserved, rec.CircuitName)
			logger.Info("Preserving static circuit", zap.String("circuit", rec.CircuitName))
			continue
		}
		inv.Delete(rec.CircuitName)
		res.Removed = append(res.Removed, rec.CircuitName)
		logger.Info("Removed stale circuit",
			zap.String("circuit", rec.CircuitName),
			zap.String("parent_node", rec.ParentNode),
		)
	}
	return res
}

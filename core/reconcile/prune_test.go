package reconcile_test

import (
	"testing"

	"shaper-sync/core/inventory"
	"shaper-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPrune(t *testing.T) {
	inv := inventory.New()
	for _, r := range []*inventory.Record{
		{CircuitName: "seen", Comment: "PPP"},
		{CircuitName: "gone", Comment: "PPP"},
		{CircuitName: "pinned", Comment: "Static"},
		{CircuitName: "pinned-upper", Comment: " STATIC "},
		{CircuitName: "staticky", Comment: "static-ish"},
	} {
		inv.Put(r)
	}

	res := reconcile.Prune(inv, map[string]struct{}{"seen": {}}, zap.NewNop())

	assert.True(t, res.Changed())
	assert.Equal(t, []string{"gone", "staticky"}, res.Removed)
	assert.Equal(t, []string{"pinned", "pinned-upper"}, res.Preserved)
	assert.Equal(t, []string{"seen", "pinned", "pinned-upper"}, inv.Keys())
}

func TestPrune_NothingToDo(t *testing.T) {
	inv := inventory.New()
	inv.Put(&inventory.Record{CircuitName: "a"})

	res := reconcile.Prune(inv, map[string]struct{}{"a": {}}, nil)
	assert.False(t, res.Changed())
	assert.Equal(t, 1, inv.Len())
}

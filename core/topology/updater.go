package topology

import (
	"go.uber.org/zap"
)

// Layout controls where missing nodes are created and how large they are.
type Layout struct {
	// Hierarchical nests service and plan nodes under a router node.
	Hierarchical bool `yaml:"hierarchical"`
	// RouterBandwidthMbps sizes new router nodes.
	RouterBandwidthMbps float64 `yaml:"router_bandwidth_mbps"`
	// ServiceBandwidthMbps sizes new per-service nodes.
	ServiceBandwidthMbps float64 `yaml:"service_bandwidth_mbps"`
	// PlanBandwidthMbps sizes new per-plan nodes.
	PlanBandwidthMbps float64 `yaml:"plan_bandwidth_mbps"`
}

// DefaultLayout matches the sizes used for freshly added routers.
func DefaultLayout() Layout {
	return Layout{
		RouterBandwidthMbps:  2000,
		ServiceBandwidthMbps: 1000,
		PlanBandwidthMbps:    1000,
	}
}

// PlanNodeName names the per-plan node of a profile on a router.
func PlanNodeName(profile, router string) string {
	return "PLAN-" + profile + "-" + router
}

// ServiceNodeName names a per-service node, e.g. ("PPP", "r1") -> "PPP-r1".
func ServiceNodeName(prefix, router string) string {
	return prefix + "-" + router
}

// Updater inserts missing nodes into a tree. It never removes or resizes
// existing nodes.
type Updater struct {
	tree    *Tree
	layout  Layout
	logger  *zap.Logger
	changed bool
}

// NewUpdater creates an updater working on tree in place.
func NewUpdater(tree *Tree, layout Layout, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{tree: tree, layout: layout, logger: logger}
}

// Changed reports whether any node was inserted.
func (u *Updater) Changed() bool {
	return u.changed
}

// Tree returns the tree being updated.
func (u *Updater) Tree() *Tree {
	return u.tree
}

// EnsureRouter makes sure the baseline service nodes of a router exist.
// In hierarchical mode a missing router node is created together with
// all its service children.
func (u *Updater) EnsureRouter(router string, services []string) {
	if !u.layout.Hierarchical {
		for _, name := range services {
			u.ensureAt(u.tree, name, u.layout.ServiceBandwidthMbps, TypeSite, router)
		}
		return
	}

	routerNode, ok := u.tree.Find(router)
	if !ok {
		routerNode = NewNode(u.layout.RouterBandwidthMbps, TypeSite)
		for _, name := range services {
			if _, exists := u.tree.Find(name); exists {
				continue
			}
			routerNode.Children.Add(name, NewNode(u.layout.ServiceBandwidthMbps, TypeSite))
		}
		u.tree.Add(router, routerNode)
		u.changed = true
		u.logger.Info("Added router to network topology",
			zap.String("router", router),
			zap.Strings("children", routerNode.Children.Names()),
		)
		return
	}

	for _, name := range services {
		u.ensureAt(routerNode.Children, name, u.layout.ServiceBandwidthMbps, TypeSite, router)
	}
}

// EnsureParent makes sure a node that records will reference exists.
func (u *Updater) EnsureParent(router, name, nodeType string) {
	if _, ok := u.tree.Find(name); ok {
		return
	}

	bandwidth := u.layout.ServiceBandwidthMbps
	if nodeType == TypePlan {
		bandwidth = u.layout.PlanBandwidthMbps
	}

	if !u.layout.Hierarchical {
		u.ensureAt(u.tree, name, bandwidth, nodeType, router)
		return
	}

	u.EnsureRouter(router, nil)
	routerNode, _ := u.tree.Find(router)
	u.ensureAt(routerNode.Children, name, bandwidth, nodeType, router)
}

func (u *Updater) ensureAt(level *Tree, name string, bandwidth float64, nodeType, router string) {
	if _, ok := u.tree.Find(name); ok {
		return
	}
	level.Add(name, NewNode(bandwidth, nodeType))
	u.changed = true
	u.logger.Info("Added node to network topology",
		zap.String("router", router),
		zap.String("node", name),
		zap.String("type", nodeType),
	)
}

package cycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shaper-sync/core/config"
	"shaper-sync/core/identity"
	"shaper-sync/core/inventory"
	"shaper-sync/core/journal"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/topology"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Reloader runs the shaper reload action.
type Reloader interface {
	Enabled() bool
	Reload(ctx context.Context) error
}

// Archiver stores a snapshot of the written files.
type Archiver interface {
	Archive(ctx context.Context, files ...string) (string, error)
}

// Journal records finished cycles.
type Journal interface {
	Record(ctx context.Context, run *journal.CycleRun, events []journal.CircuitEvent) error
}

// Options tune a single cycle.
type Options struct {
	// DryRun reconciles in memory without writing, reloading or archiving.
	DryRun bool
}

// Deps are the collaborators of a Runner. Reloader, Archiver and Journal are optional.
type Deps struct {
	Dialer   routeros.Dialer
	Sources  []reconcile.Source
	IDs      *identity.Allocator
	Reloader Reloader
	Archiver Archiver
	Journal  Journal
	Logger   *zap.Logger
}

// Runner executes reconcile cycles. Cycles never overlap: the mutex
// serialises them and concurrent triggers share one execution.
type Runner struct {
	cfg  config.SyncConfig
	deps Deps

	mu    sync.Mutex
	group singleflight.Group

	lastMu sync.RWMutex
	last   *Report
}

// NewRunner creates a runner.
func NewRunner(cfg config.SyncConfig, deps Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.IDs == nil {
		deps.IDs = identity.NewAllocator()
	}
	return &Runner{cfg: cfg, deps: deps}
}

// Last returns the report of the most recent cycle, or nil.
func (r *Runner) Last() *Report {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	return r.last
}

// Trigger runs a cycle, joining one already requested with the same options.
func (r *Runner) Trigger(ctx context.Context, opts Options) (*Report, error) {
	key := "cycle"
	if opts.DryRun {
		key = "cycle-dry-run"
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.RunCycle(ctx, opts)
	})
	report, _ := v.(*Report)
	return report, err
}

// Run loops until ctx is cancelled, waiting ScanInterval after a good cycle
// and ErrorRetryInterval after a failed one.
func (r *Runner) Run(ctx context.Context) error {
	for {
		wait := r.cfg.ScanInterval
		if _, err := r.Trigger(ctx, Options{}); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait = r.cfg.ErrorRetryInterval
			r.deps.Logger.Error("Cycle failed, retrying", zap.Duration("retry_in", wait), zap.Error(err))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle performs one full pass: load, reconcile every router, prune once,
// persist, reload, archive and journal.
func (r *Runner) RunCycle(ctx context.Context, opts Options) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &Report{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}
	l := r.deps.Logger.With(zap.String("cycle_id", report.CycleID))
	l.Info("Cycle started", zap.Bool("dry_run", opts.DryRun))

	routerOf := make(map[string]string)
	err := r.execute(ctx, opts, report, routerOf, l)

	report.FinishedAt = time.Now().UTC()
	report.OK = err == nil
	if err != nil {
		report.Error = err.Error()
	}

	if r.deps.Journal != nil {
		if jerr := r.deps.Journal.Record(ctx, report.run(), report.events(routerOf)); jerr != nil {
			l.Warn("Failed to journal cycle", zap.Error(jerr))
		}
	}

	r.lastMu.Lock()
	r.last = report
	r.lastMu.Unlock()

	fields := []zap.Field{
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		zap.Int("routers", report.Routers),
		zap.Strings("failed_routers", report.FailedRouters),
		zap.Int("records", report.Records),
		zap.Int("created", len(report.Created)),
		zap.Int("updated", len(report.Updated)),
		zap.Int("removed", len(report.Removed)),
		zap.Int("preserved", len(report.Preserved)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("dirty", report.Dirty),
	}
	if err != nil {
		l.Error("Cycle failed", append(fields, zap.Error(err))...)
		return report, err
	}
	l.Info("Cycle finished", fields...)
	return report, nil
}

func (r *Runner) execute(ctx context.Context, opts Options, report *Report, routerOf map[string]string, l *zap.Logger) error {
	routers, err := config.LoadRouters(r.cfg.RoutersFile)
	if err != nil {
		return err
	}
	inv, err := inventory.Load(r.cfg.InventoryFile)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	tree, err := topology.Load(r.cfg.TopologyFile)
	if err != nil {
		return fmt.Errorf("failed to load topology: %w", err)
	}

	updater := topology.NewUpdater(tree, routers.Layout(), l)
	engine := reconcile.NewEngine(inv, r.deps.IDs, l)
	total := reconcile.NewResult()
	report.Routers = len(routers.Routers)

	for _, router := range routers.Routers {
		if err := ctx.Err(); err != nil {
			return err
		}

		rl := l.With(zap.String("router", router.Name))
		res, err := r.processRouter(ctx, router, engine, updater, rl)
		if err != nil {
			report.FailedRouters = append(report.FailedRouters, router.Name)
			rl.Error("Router skipped for this cycle", zap.Error(err))
			continue
		}
		for _, code := range res.Created {
			routerOf[code] = router.Name
		}
		total.Absorb(res)
	}

	pruned := reconcile.Prune(inv, total.Observed, l)

	report.Observed = len(total.Observed)
	report.Created = total.Created
	report.Updated = total.Updated
	report.Skipped = total.Skipped
	report.Removed = pruned.Removed
	report.Preserved = pruned.Preserved
	report.Records = inv.Len()
	report.Dirty = total.Changed || pruned.Changed()
	report.TopologyChanged = updater.Changed()

	if opts.DryRun {
		if report.Written() {
			l.Info("Dry run, changes not written")
		}
		return nil
	}

	if report.TopologyChanged {
		if err := topology.Save(r.cfg.TopologyFile, tree); err != nil {
			return &PersistenceError{Path: r.cfg.TopologyFile, Err: err}
		}
		l.Info("Network topology written", zap.String("path", r.cfg.TopologyFile))
	}
	if report.Dirty {
		if err := inventory.Save(r.cfg.InventoryFile, inv); err != nil {
			return &PersistenceError{Path: r.cfg.InventoryFile, Err: err}
		}
		l.Info("Inventory written", zap.String("path", r.cfg.InventoryFile), zap.Int("records", inv.Len()))
	}

	if !report.Written() {
		return nil
	}

	if r.deps.Reloader != nil && r.deps.Reloader.Enabled() {
		if err := r.deps.Reloader.Reload(ctx); err != nil {
			l.Error("Shaper reload failed", zap.Error(err))
		}
	}
	if r.deps.Archiver != nil {
		snapshot, err := r.deps.Archiver.Archive(ctx, r.cfg.InventoryFile, r.cfg.TopologyFile)
		if err != nil {
			l.Warn("Snapshot archive failed", zap.Error(err))
		} else {
			report.Snapshot = snapshot
		}
	}
	return nil
}

// processRouter dials one router and runs its enabled sources in order.
// Any error returned means the router contributed nothing this cycle.
func (r *Runner) processRouter(ctx context.Context, router config.Router, engine *reconcile.Engine, updater *topology.Updater, l *zap.Logger) (*reconcile.Result, error) {
	var enabled []reconcile.Source
	var services []string
	for _, src := range r.deps.Sources {
		if src.Enabled(router) {
			enabled = append(enabled, src)
			services = append(services, src.ServiceNode(router.Name))
		}
	}

	session, err := r.deps.Dialer.Dial(ctx, routeros.Target{
		Name:               router.Name,
		Address:            router.Address,
		Port:               router.Port,
		Username:           router.Username,
		Password:           router.Password,
		TLS:                router.TLS,
		InsecureSkipVerify: r.cfg.TLSSkipVerify,
		Timeout:            r.cfg.DialTimeout(),
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()
	l.Debug("Connected to router", zap.String("address", router.Address))

	updater.EnsureRouter(router.Name, services)

	// Nothing is merged until every source collected: a router that drops
	// mid-pass contributes nothing. One merge per router lets circuits trade
	// addresses across services.
	var collected []reconcile.Session
	for _, src := range enabled {
		sessions, err := src.Collect(ctx, session, router)
		if err != nil {
			if routeros.IsConnectionError(err) || ctx.Err() != nil {
				return nil, err
			}
			l.Warn("Source failed, skipping", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		collected = append(collected, sessions...)
	}

	for _, s := range collected {
		updater.EnsureParent(router.Name, s.ParentNode, s.ParentType)
	}
	res := engine.Merge(collected)

	l.Info("Router reconciled",
		zap.Int("sources", len(enabled)),
		zap.Int("observed", len(res.Observed)),
		zap.Int("created", len(res.Created)),
		zap.Int("updated", len(res.Updated)),
	)
	return res, nil
}

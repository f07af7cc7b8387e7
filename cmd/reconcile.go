package cmd

import (
	"context"
	"fmt"

	"shaper-sync/core/config"
	"shaper-sync/core/cycle"
	"shaper-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunReconcile bool

// reconcileCmd runs exactly one cycle.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a single reconcile cycle",
	Long: `Polls every router once, merges sessions into the inventory, prunes stale
circuits and writes the files, then exits.

Examples:
  # See what would change
  reconcile --dry-run

  # Apply
  reconcile`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Reconcile in memory only (no writes, reload or archive)")
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	rt, err := newRuntime(ctx, cfg, l)
	if err != nil {
		return err
	}

	report, err := rt.runner.RunCycle(ctx, cycle.Options{DryRun: dryRunReconcile})
	if err != nil {
		return fmt.Errorf("cycle %s failed: %w", report.CycleID, err)
	}
	printReport(l, report)
	return nil
}

// printReport logs the per-circuit outcome of a cycle.
func printReport(l *zap.Logger, r *cycle.Report) {
	for _, c := range r.Created {
		l.Info("Created", zap.String("circuit", c))
	}
	for _, u := range r.Updated {
		l.Info("Updated", zap.String("circuit", u.Circuit), zap.Strings("fields", u.Fields))
	}
	for _, c := range r.Removed {
		l.Info("Removed", zap.String("circuit", c))
	}
	for _, s := range r.Skipped {
		l.Warn("Skipped", zap.String("circuit", s.Circuit), zap.String("ipv4", s.IPv4), zap.String("owner", s.Owner))
	}
	if len(r.FailedRouters) > 0 {
		l.Warn("Unreachable routers", zap.Strings("routers", r.FailedRouters))
	}
	if r.DryRun {
		l.Info("Dry-run mode: No changes were made.", zap.Bool("would_write", r.Written()))
	}
}

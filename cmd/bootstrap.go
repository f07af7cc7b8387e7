package cmd

import (
	"context"
	"fmt"

	"shaper-sync/core/archive"
	"shaper-sync/core/config"
	"shaper-sync/core/cycle"
	"shaper-sync/core/database"
	"shaper-sync/core/journal"
	"shaper-sync/core/rates"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/reload"
	"shaper-sync/core/routeros"
	"shaper-sync/core/storage"
	"shaper-sync/feature/dhcp"
	"shaper-sync/feature/hotspot"
	"shaper-sync/feature/pppoe"

	"go.uber.org/zap"
)

// runtime bundles what the start and reconcile commands share.
type runtime struct {
	runner   *cycle.Runner
	recorder *journal.Recorder
	archiver *archive.Archiver
}

// newSources returns the session sources in processing order.
func newSources(cfg *config.Config, logg *zap.Logger) ([]reconcile.Source, error) {
	conv, err := rates.NewConverter(cfg.Rates, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate converter: %w", err)
	}
	return []reconcile.Source{
		pppoe.NewSource(conv, cfg.Sync.DefaultRateLimit, logg),
		hotspot.NewSource(conv, logg),
		dhcp.NewSource(conv, logg),
	}, nil
}

// newRecorder opens the optional cycle journal. A failure disables it.
func newRecorder(ctx context.Context, cfg database.Config, logg *zap.Logger) *journal.Recorder {
	if !cfg.Enabled {
		return nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		logg.Warn("Optional journal database connection failed", zap.Error(err))
		return nil
	}

	rec := journal.NewRecorder(db)
	if err := rec.Migrate(ctx); err != nil {
		logg.Warn("Journal migration failed, journal disabled", zap.Error(err))
		return nil
	}
	logg.Info("Connected to journal database", zap.String("driver", cfg.Driver))
	return rec
}

// newArchiver creates the optional snapshot archiver.
func newArchiver(cfg *config.Config, logg *zap.Logger) (*archive.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return archive.New(store, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Archive, logg), nil
}

func newRuntime(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*runtime, error) {
	sources, err := newSources(cfg, logg)
	if err != nil {
		return nil, err
	}
	arch, err := newArchiver(cfg, logg)
	if err != nil {
		return nil, err
	}
	rec := newRecorder(ctx, cfg.Database, logg)

	deps := cycle.Deps{
		Dialer:   routeros.NewDialer(),
		Sources:  sources,
		Reloader: reload.New(cfg.Reload, logg),
		Logger:   logg,
	}
	// Interface fields stay nil unless the concrete value exists.
	if arch != nil {
		deps.Archiver = arch
	}
	if rec != nil {
		deps.Journal = rec
	}

	return &runtime{
		runner:   cycle.NewRunner(cfg.Sync, deps),
		recorder: rec,
		archiver: arch,
	}, nil
}

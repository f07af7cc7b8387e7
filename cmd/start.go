package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shaper-sync/core/config"
	"shaper-sync/core/loader"
	"shaper-sync/core/logger"
	"shaper-sync/core/middleware/auth"
	"shaper-sync/core/middleware/rayid"
	"shaper-sync/feature/circuits"
	"shaper-sync/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the reconcile loop",
	Long: `Runs a reconcile cycle every sync.scan_interval (sync.error_retry_interval
after a failure) until interrupted. Serves the status API when server.enabled is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. Wire the cycle runner
		rt, err := newRuntime(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("Failed to initialize", zap.Error(err))
		}

		// 4. Status API (optional)
		var app *fiber.App
		if cfg.Server.Enabled {
			app = newApp(cfg, rt, logg)
			go func() {
				logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
				if err := app.Listen(cfg.Server.Address()); err != nil {
					logg.Error("Server stopped", zap.Error(err))
				}
			}()
		}

		// 5. Loop until SIGINT/SIGTERM
		logg.Info("Reconcile loop started",
			zap.String("routers_file", cfg.Sync.RoutersFile),
			zap.Duration("scan_interval", cfg.Sync.ScanInterval),
			zap.Duration("error_retry_interval", cfg.Sync.ErrorRetryInterval),
		)
		if err := rt.runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error("Reconcile loop stopped", zap.Error(err))
		}

		logg.Info("Shutting down...")
		if app != nil {
			_ = app.Shutdown()
		}
	},
}

// newApp builds the fiber app with request tracing, logging, auth and features.
func newApp(cfg *config.Config, rt *runtime, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every request log carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{
		ApiKey: cfg.Server.ApiKey,
		Skip:   func(c *fiber.Ctx) bool { return c.Path() == "/healthz" },
	}))

	var statusHistory status.History
	var circuitHistory circuits.History
	if rt.recorder != nil {
		statusHistory = rt.recorder
		circuitHistory = rt.recorder
	}

	mgr := loader.NewManager(logg)
	mgr.Register(status.NewFeature(rt.runner, statusHistory, logg))
	mgr.Register(circuits.NewFeature(cfg.Sync.InventoryFile, circuitHistory, logg))
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}

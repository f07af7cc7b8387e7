package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"shaper-sync/core/config"
	"shaper-sync/core/logger"
	"shaper-sync/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var restoreOutput string

// archiveCmd groups snapshot operations.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect and restore archived snapshots",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := archiveSetup()
		if err != nil {
			return err
		}
		arch, err := newArchiver(cfg, l)
		if err != nil {
			return err
		}

		snapshots, err := arch.Snapshots(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range snapshots {
			fmt.Println(s)
		}
		return nil
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <snapshot> <file>",
	Short: "Download one file of a snapshot",
	Long: `Downloads a file (ShapedDevices.csv or network.json) from a snapshot.
Without --output it is written to stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := archiveSetup()
		if err != nil {
			return err
		}
		arch, err := newArchiver(cfg, l)
		if err != nil {
			return err
		}

		if restoreOutput == "" {
			return arch.Fetch(cmd.Context(), args[0], args[1], os.Stdout)
		}

		err = utils.WriteFileAtomic(restoreOutput, func(w io.Writer) error {
			return arch.Fetch(cmd.Context(), args[0], args[1], w)
		})
		if err != nil {
			return err
		}
		l.Info("Snapshot file restored", zap.String("snapshot", args[0]), zap.String("output", restoreOutput))
		return nil
	},
}

func archiveSetup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Archive.Enabled {
		return nil, nil, errors.New("archive is disabled (set ARCHIVE_ENABLED=true)")
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

func init() {
	archiveRestoreCmd.Flags().StringVarP(&restoreOutput, "output", "o", "", "Write to this path instead of stdout")
	archiveCmd.AddCommand(archiveListCmd, archiveRestoreCmd)
	RootCmd.AddCommand(archiveCmd)
}

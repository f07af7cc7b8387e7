package cmd

import (
	"fmt"
	"os"

	"shaper-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "shaper-sync",
	Short: "Router to traffic shaper inventory sync",
	Long: `shaper-sync polls MikroTik routers for PPPoE, Hotspot and DHCP sessions
and keeps the shaper's ShapedDevices.csv and network.json in step with them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and debug level give readable ISO8601 output for CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

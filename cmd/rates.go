package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"shaper-sync/core/config"
	"shaper-sync/core/rates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ratesCmd shows the tiers a rate-limit string turns into.
var ratesCmd = &cobra.Command{
	Use:   "rates <rate-limit>...",
	Short: "Show the min/max tiers derived from rate-limit strings",
	Long: `Parses RouterOS rate-limit strings with the configured policy and prints
the resulting Mbps tiers.

Example:
  rates 20M/5M "10M/2M 12M/3M 8M/1M 10/10"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		conv, err := rates.NewConverter(cfg.Rates, zap.NewNop())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RATE-LIMIT\tDOWN MIN\tUP MIN\tDOWN MAX\tUP MAX")
		for _, raw := range args {
			minRx, minTx, maxRx, maxTx := conv.Tiers(raw)
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", raw, minRx, minTx, maxRx, maxTx)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(ratesCmd)
}

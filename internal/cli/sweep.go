package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// sweepCmd runs a single expiry sweep and exits. Useful when the daemon
// runs with a long sweep interval or from cron against a stopped node.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire stale listings and installment plans once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		handler, cleanup, err := buildHandler(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		return handler.RunSweep(ctx)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
)

// NewDeployCommand creates the deploy command: starts the maintenance
// worker watching the data directory for dropped-in schema resources
// until interrupted (spec.md §5).
func NewDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Watch the data directory and rebuild schemas on change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := clictx.Config(ctx)
			renderer := clictx.Renderer(ctx)
			logger := clictx.Logger(ctx)

			set, err := wiring.CreateEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer set.Close()

			renderer.Println("watching " + cfg.DataDir + " for schema changes, press ctrl-c to stop")

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return set.Worker.Run(runCtx)
		},
	}
}

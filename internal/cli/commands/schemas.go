package commands

import (
	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
)

// NewSchemasCommand creates the schemas command: it attaches every
// schema found under the configured data directory and lists what
// loaded, the read-only counterpart to build/deploy.
func NewSchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List schemas available in the data directory",
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

			schemas := set.Engine.Schemas()
			if renderer.EffectiveMode() == "json" {
				return renderer.JSON(schemas)
			}

			header := []string{"ID", "Name"}
			rows := make([][]string, 0, len(schemas))
			for _, s := range schemas {
				rows = append(rows, []string{s.ID, s.Name})
			}
			renderer.Table(header, rows)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
)

// NewBuildCommand creates the build command: recompiles one schema's
// table.bin from its source dictionary against its existing prism.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <schema-id>",
		Short: "Compile a schema's source dictionary into a table.bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := clictx.Config(ctx)
			renderer := clictx.Renderer(ctx)

			if err := wiring.BuildSchema(args[0], cfg.DataDir); err != nil {
				return err
			}
			renderer.Println(fmt.Sprintf("built %s.table.bin", args[0]))
			return nil
		},
	}
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
)

// simulateResult is the JSON shape of `simulate`'s output.
type simulateResult struct {
	Handled bool   `json:"handled"`
	Commit  string `json:"commit"`
	Preedit string `json:"preedit"`
}

// NewSimulateCommand creates the simulate command: feeds a scripted
// key sequence (spec.md §6's key sequence grammar) through a fresh
// session against one schema and reports the result, without needing
// an interactive terminal.
func NewSimulateCommand() *cobra.Command {
	var schemaID string

	cmd := &cobra.Command{
		Use:   "simulate <key-sequence>",
		Short: "Feed a scripted key sequence through a schema and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := clictx.Config(ctx)
			renderer := clictx.Renderer(ctx)
			logger := clictx.Logger(ctx)

			if schemaID == "" {
				schemaID = cfg.DefaultSchema
			}
			if schemaID == "" {
				return fmt.Errorf("simulate: --schema is required when default_schema isn't configured")
			}

			set, err := wiring.CreateEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer set.Close()

			sessionID, err := set.Engine.CreateSession(schemaID)
			if err != nil {
				return err
			}
			defer set.Engine.DestroySession(sessionID)

			handled, err := set.Engine.SimulateKeySequence(sessionID, args[0])
			if err != nil {
				return err
			}

			commit, _ := set.Engine.GetCommit(sessionID)
			viewCtx, err := set.Engine.GetContext(sessionID)
			if err != nil {
				return err
			}

			result := simulateResult{Handled: handled, Commit: commit, Preedit: viewCtx.Composition.Preedit}
			if renderer.EffectiveMode() == "json" {
				return renderer.JSON(result)
			}

			renderer.Printf("handled: %v\ncommit:  %q\npreedit: %q\n", result.Handled, result.Commit, result.Preedit)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaID, "schema", "", "schema to attach (default: config's default_schema)")
	return cmd
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
	"github.com/rimecore/rimecore/pkg/core"
)

// NewSessionCommand creates the session command: an interactive REPL
// over one schema, one key (or dot-command) per line, mirroring the
// teacher's query REPL but driving internal/session.Engine instead of
// a SQL prompt.
func NewSessionCommand() *cobra.Command {
	var schemaID string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open an interactive input session against a schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := clictx.Config(ctx)
			renderer := clictx.Renderer(ctx)
			logger := clictx.Logger(ctx)

			if schemaID == "" {
				schemaID = cfg.DefaultSchema
			}
			if schemaID == "" {
				return fmt.Errorf("session: --schema is required when default_schema isn't configured")
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

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          schemaID + "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "quit",
			})
			if err != nil {
				return fmt.Errorf("session: init readline: %w", err)
			}
			defer rl.Close()

			renderer.Println("type characters to compose; .status, .commit, .clear, .quit to control the session")
			return runSessionLoop(rl, set, sessionID, renderer)
		},
	}

	cmd.Flags().StringVar(&schemaID, "schema", "", "schema to attach (default: config's default_schema)")
	return cmd
}

func runSessionLoop(rl *readline.Instance, set *wiring.EngineSet, sessionID string, renderer interface {
	Println(string)
	Printf(string, ...any)
}) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if line == ".quit" {
				return nil
			}
			if done, err := runDotCommand(line, set, sessionID, renderer); err != nil {
				renderer.Printf("error: %v\n", err)
			} else if done {
				continue
			}
			continue
		}

		for _, r := range line {
			if _, err := set.Engine.ProcessKey(sessionID, core.KeyEvent{Code: string(r)}); err != nil {
				renderer.Printf("error: %v\n", err)
			}
		}
		printSessionState(set, sessionID, renderer)
	}
}

func runDotCommand(line string, set *wiring.EngineSet, sessionID string, renderer interface {
	Println(string)
	Printf(string, ...any)
}) (bool, error) {
	switch line {
	case ".status":
		status, err := set.Engine.GetStatus(sessionID)
		if err != nil {
			return true, err
		}
		renderer.Printf("%+v\n", status)
	case ".commit":
		if err := set.Engine.CommitComposition(sessionID); err != nil {
			return true, err
		}
		if text, ok := set.Engine.GetCommit(sessionID); ok {
			renderer.Printf("committed: %q\n", text)
		}
	case ".clear":
		if err := set.Engine.ClearComposition(sessionID); err != nil {
			return true, err
		}
	default:
		renderer.Printf("unknown command %q\n", line)
	}
	return true, nil
}

func printSessionState(set *wiring.EngineSet, sessionID string, renderer interface {
	Println(string)
	Printf(string, ...any)
}) {
	if text, ok := set.Engine.GetCommit(sessionID); ok {
		renderer.Printf("commit: %s\n", text)
	}
	view, err := set.Engine.GetContext(sessionID)
	if err != nil {
		return
	}
	renderer.Printf("preedit: %s\n", view.Composition.Preedit)
	for i, c := range view.Menu.Candidates {
		marker := " "
		if i == view.Menu.HighlightedIndex {
			marker = "*"
		}
		renderer.Printf("%s %d. %s %s\n", marker, i+1, c.Text, c.Comment)
	}
}

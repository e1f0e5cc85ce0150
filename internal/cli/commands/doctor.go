package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rimecore/rimecore/internal/cli/clictx"
	"github.com/rimecore/rimecore/internal/cli/wiring"
)

// doctorCheck is one health check's result.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// doctorReport is the full output of the doctor command.
type doctorReport struct {
	Checks  []doctorCheck `json:"checks"`
	Schemas int           `json:"schemas"`
}

// NewDoctorCommand creates the doctor command: a quick health check of
// the data directory and every schema it can attach, mirroring the
// teacher's doctor command's diagnostics-over-a-project shape.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the data directory and every schema for problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := clictx.Config(ctx)
			renderer := clictx.Renderer(ctx)
			logger := clictx.Logger(ctx)

			report := doctorReport{}

			if info, err := os.Stat(cfg.DataDir); err != nil || !info.IsDir() {
				report.Checks = append(report.Checks, doctorCheck{Name: "data_dir", Passed: false, Message: "not a readable directory: " + cfg.DataDir})
			} else {
				report.Checks = append(report.Checks, doctorCheck{Name: "data_dir", Passed: true})
			}

			if err := os.MkdirAll(cfg.UserDataDir, 0o750); err != nil {
				report.Checks = append(report.Checks, doctorCheck{Name: "user_data_dir", Passed: false, Message: err.Error()})
			} else {
				report.Checks = append(report.Checks, doctorCheck{Name: "user_data_dir", Passed: true})
			}

			set, err := wiring.CreateEngine(cfg, logger)
			if err != nil {
				report.Checks = append(report.Checks, doctorCheck{Name: "schemas", Passed: false, Message: err.Error()})
			} else {
				defer set.Close()
				schemas := set.Engine.Schemas()
				report.Schemas = len(schemas)
				report.Checks = append(report.Checks, doctorCheck{Name: "schemas", Passed: len(schemas) > 0, Message: "attached"})
			}

			if renderer.EffectiveMode() == "json" {
				return renderer.JSON(report)
			}

			styles := renderer.Styles()
			renderer.Println(styles.Header.Render("rimecore doctor"))
			for _, c := range report.Checks {
				if c.Passed {
					renderer.Println(styles.Success.Render("PASS") + " " + c.Name)
				} else {
					renderer.Println(styles.Error.Render("FAIL") + " " + c.Name + ": " + c.Message)
				}
			}
			return nil
		},
	}
}

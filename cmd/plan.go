package cmd

import (
	"os"

	"github.com/pb33f/harplay/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var planPlain bool

var planCmd = &cobra.Command{
	Use:   "plan [har-file]",
	Short: "Preview the replay plan of a HAR file as a table",
	Long: `Show what a generated runner would do without generating it: the login
found in the archive, each replayed request in order, where the anti-forgery
token is refreshed and which requests will be profiled.`,
	Args:    cobra.MaximumNArgs(1),
	Example: `  harplay plan session.har --auto-profile --threshold 2500`,
	RunE:    runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addSessionFlags(planCmd)
	planCmd.Flags().BoolVar(&planPlain, "plain", false, "Disable colors and box drawing")
}

func runPlan(cmd *cobra.Command, args []string) error {
	archive, session, err := buildSession(cmd, args)
	if err != nil {
		return err
	}

	opts := tui.PlanViewOptions{
		Login: cfg.SessionOptions().Login,
	}
	if cfg.Output == "" || cfg.Output == stdStream {
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			opts.Styled = !planPlain
			if width, _, err := term.GetSize(int(f.Fd())); err == nil {
				opts.Width = width
			}
		}
	}

	return writeOutput(cmd, cfg.Output, []byte(tui.RenderPlan(session, archive, opts)))
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pb33f/harplay/motor"
	"github.com/pb33f/harplay/render"
	"github.com/spf13/cobra"
)

var runnerCmd = &cobra.Command{
	Use:   "runner [har-file]",
	Short: "Generate a replay script from a HAR file",
	Long: `Generate a script that logs in with the recorded credentials and replays
every backend request of the captured session in order.

The default format is a rails runner script. The json and yaml formats emit
the same plan for other tooling. Requests slower than the threshold are run
with performance profiling headers when --auto-profile is set.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  harplay runner session.har -o replay.rb
  harplay runner session.har --auto-profile --threshold 5000
  harplay runner session.har --format json`,
	RunE: runRunner,
}

func init() {
	rootCmd.AddCommand(runnerCmd)
	addSessionFlags(runnerCmd)
	runnerCmd.Flags().StringP("format", "f", "rails", fmt.Sprintf("Output format (%s)", strings.Join(render.Formats, ", ")))
}

// addSessionFlags registers the flags shared by commands that build a session
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("auto-profile", false, "Profile requests slower than the threshold")
	cmd.Flags().Float64("threshold", motor.DefaultProfileThreshold, "Auto profile threshold in milliseconds")
	cmd.Flags().String("login-path", motor.DefaultLoginPath, "Path of the login endpoint")
	cmd.Flags().String("token-header", motor.DefaultTokenHeader, "Request header carrying the anti-forgery token")
}

func runRunner(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	renderer, err := render.ForFormat(cfg.Format)
	if err != nil {
		return err
	}

	archive, session, err := buildSession(cmd, args)
	if err != nil {
		return err
	}

	plan, err := motor.NewPlan(session, cfg.SessionOptions())
	if err != nil {
		return err
	}
	plan.ArchiveHash = archive.Hash

	out, err := renderBytes(func(w io.Writer) error {
		return motor.RenderPlan(plan, renderer, w)
	})
	if err != nil {
		return err
	}

	logger.Debug("runner rendered", "format", renderer.Name(), "user", plan.Credentials.Username)
	return writeOutput(cmd, cfg.Output, out)
}

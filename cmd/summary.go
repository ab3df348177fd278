package cmd

import (
	"io"

	"github.com/pb33f/harplay/motor"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [har-file]",
	Short: "Print a tab separated timeline of the backend requests in a HAR file",
	Long: `Print one line per request that exercises the backend, in capture order:

  <time ms>	<METHOD>	<url>

Assets, static pages, dashboard widgets and notification traffic are left out.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  harplay summary session.har
  harplay summary < session.har | sort -rn | head`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	archive, err := extractArchive(cmd, args)
	if err != nil {
		return err
	}

	out, err := renderBytes(func(w io.Writer) error {
		for line := range motor.Summarize(archive.Records) {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd, cfg.Output, out)
}

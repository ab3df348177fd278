package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pb33f/harplay/hargen"
	"github.com/spf13/cobra"
)

var (
	genEntryCount     int
	genNoiseCount     int
	genTokenRotations int
	genSlowCount      int
	genLoginRetries   int
	genSkipLogin      bool
	genUsername       string
	genPassword       string
	genBaseURL        string
	genSeed           int64
	genDictPath       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic recorded session HAR file",
	Long: `Generate a HAR file that looks like a captured browser session: a login,
application requests with rotating anti-forgery tokens, a few slow calls and
the asset and notification noise that harplay filters out.

Useful for trying out summary, plan and runner without a real capture.`,
	Example: `  harplay generate -n 50 -o session.har
  harplay generate --noise 20 --tokens 4 --slow 3 --seed 42
  harplay generate --login-retries 2 -o retried.har`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	d := hargen.DefaultGenerateOptions
	generateCmd.Flags().IntVarP(&genEntryCount, "entries", "n", d.EntryCount, "Number of application requests to generate")
	generateCmd.Flags().IntVar(&genNoiseCount, "noise", d.NoiseCount, "Number of asset and notification requests to interleave")
	generateCmd.Flags().IntVar(&genTokenRotations, "tokens", d.TokenRotations, "Number of distinct anti-forgery tokens (0 = none)")
	generateCmd.Flags().IntVar(&genSlowCount, "slow", d.SlowCount, "Number of requests slower than the default profile threshold")
	generateCmd.Flags().IntVar(&genLoginRetries, "login-retries", 0, "Failed logins recorded before the successful one")
	generateCmd.Flags().BoolVar(&genSkipLogin, "no-login", false, "Leave the login request out")
	generateCmd.Flags().StringVar(&genUsername, "user", d.Username, "Username posted by the login request")
	generateCmd.Flags().StringVar(&genPassword, "password", d.Password, "Password posted by the login request")
	generateCmd.Flags().StringVar(&genBaseURL, "base-url", d.BaseURL, "Scheme and host of every request")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVarP(&genDictPath, "dict", "d", "", "Word list for paths and params (default: built-in vocabulary)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	opts := hargen.GenerateOptions{
		BaseURL:        genBaseURL,
		EntryCount:     genEntryCount,
		NoiseCount:     genNoiseCount,
		TokenRotations: genTokenRotations,
		SlowCount:      genSlowCount,
		LoginRetries:   genLoginRetries,
		SkipLogin:      genSkipLogin,
		Username:       genUsername,
		Password:       genPassword,
		DictionaryPath: genDictPath,
		Seed:           genSeed,
	}

	logger.Debug("generating session", "entries", genEntryCount, "noise", genNoiseCount, "seed", genSeed)

	var result *hargen.GenerateResult
	var err error
	if cfg.Output != "" && cfg.Output != stdStream {
		result, err = hargen.GenerateToFile(cfg.Output, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	out := cmd.OutOrStdout()
	expect := result.Expectation
	fmt.Fprintf(out, "Generated HAR file: %s\n", result.HARFilePath)
	fmt.Fprintf(out, "  total entries:   %s\n", humanize.Comma(int64(result.TotalEntries)))
	fmt.Fprintf(out, "  replayed:        %d\n", len(expect.Paths))
	fmt.Fprintf(out, "  excluded:        %d\n", expect.Excluded)
	fmt.Fprintf(out, "  login attempts:  %d\n", expect.LoginAttempts)
	fmt.Fprintf(out, "  token refreshes: %d\n", expect.TokenRefreshes)
	fmt.Fprintf(out, "  slow requests:   %d\n", expect.Slow)

	return nil
}

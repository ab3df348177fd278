package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pb33f/harplay/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbose    bool
	configFile string
	Logger     *slog.Logger

	// cfg is resolved once per invocation in PersistentPreRunE
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "harplay",
		Short: "Turn recorded browser sessions into replayable request scripts",
		Long: `harplay reads a HAR file captured while using a web application and
converts it into a script that replays the same session against the backend.
Static assets and notification polling are dropped, the login request is
turned into credentials, anti-forgery token changes are tracked, and slow
requests can be flagged for profiling.`,
		Example: `  harplay summary session.har
  harplay runner session.har --auto-profile -o replay.rb
  cat session.har | harplay runner --format yaml
  harplay plan session.har`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded
			setupLogger(cfg.Log)
			return nil
		},
	}
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"input":        "input",
	"output":       "output",
	"format":       "format",
	"auto-profile": "auto_profile",
	"threshold":    "auto_profile_threshold",
	"login-path":   "login.path",
	"token-header": "token.header",
	"exclude":      "exclude",
	"log-file":     "log.file",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (default: ./harplay.yaml, $HOME/.harplay/harplay.yaml)")
	rootCmd.PersistentFlags().StringP("input", "i", "", "HAR file to read (default: standard input)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "File to write (default: standard output)")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Extra exclusion rules: prefix:/path, exact:/path or regex:pattern")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file (rotated)")

	// will be reconfigured in PersistentPreRunE based on flags
	setupLogger(config.LogConfig{})
}

// loadConfig resolves configuration for cmd, binding whichever of its flags
// correspond to configuration keys.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	loaded, err := config.LoadConfig(configFile, v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return loaded, nil
}

// setupLogger configures the global slog logger based on the verbose flag
// and the optional rotating log file
func setupLogger(logCfg config.LogConfig) {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	var out io.Writer = os.Stderr
	if logCfg.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.MaxSizeMB,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAgeDays,
			Compress:   logCfg.Compress,
		})
	}

	handler := slog.NewTextHandler(out, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger(config.LogConfig{})
	}
	return Logger
}

// ValidateHARFile checks if the provided HAR file exists and is accessible
// check if the file exists, and it is not a directory.
func ValidateHARFile(harFile string) error {
	if harFile == "" {
		return fmt.Errorf("HAR file path is required")
	}

	info, err := os.Stat(harFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("HAR file does not exist: %s", harFile)
		}
		return fmt.Errorf("error accessing HAR file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", harFile)
	}

	return nil
}

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pb33f/harplay/motor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const stdStream = "-"

// inputPath prefers the positional argument over the configured input
func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Input
}

// readInput reads the whole archive from path, or from stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == stdStream {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			GetLogger().Warn("reading HAR archive from terminal, end input with Ctrl-D")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	if err := ValidateHARFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HAR file: %w", err)
	}
	return data, nil
}

// writeOutput writes data once to the configured sink
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdStream {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	GetLogger().Info("output written", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// extractArchive reads and filters the input archive
func extractArchive(cmd *cobra.Command, args []string) (*motor.Archive, error) {
	logger := GetLogger()
	path := inputPath(args)

	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	logger.Debug("extracting archive", "input", displayName(path), "rules", len(rules))
	archive, err := motor.NewExtractor(rules).WithLogger(logger).ExtractBytes(data)
	if err != nil {
		return nil, err
	}

	logger.Info("HAR archive loaded",
		"input", displayName(path),
		"size", humanize.Bytes(uint64(archive.Size)),
		"entries", archive.Total,
		"excluded", archive.Excluded,
		"fingerprint", archive.Hash)
	if archive.Creator != "" {
		logger.Debug("HAR creator", "name", archive.Creator)
	}

	return archive, nil
}

// buildSession runs extraction followed by the session build pass
func buildSession(cmd *cobra.Command, args []string) (*motor.Archive, *motor.Session, error) {
	archive, err := extractArchive(cmd, args)
	if err != nil {
		return nil, nil, err
	}

	session := motor.BuildSession(archive.Records, cfg.SessionOptions())
	GetLogger().Info("session built",
		"requests", len(session.Directives),
		"login_attempts", session.LoginAttempts,
		"token_refreshes", session.TokenRefreshes(),
		"profiled", session.Profiled())
	if session.LoginAttempts > 1 {
		GetLogger().Warn("multiple login requests found, using the last one", "attempts", session.LoginAttempts)
	}

	return archive, session, nil
}

func displayName(path string) string {
	if path == "" || path == stdStream {
		return "<stdin>"
	}
	return path
}

func renderBytes(fn func(w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package hargen generates synthetic recorded-session archives: a login,
// application traffic with rotating anti-forgery tokens, slow calls and the
// asset/notification noise a browser capture always contains.
package hargen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/harhar"
)

// GenerateOptions configures session generation
type GenerateOptions struct {
	BaseURL        string  // scheme and host of every request (default: http://localhost:3000)
	EntryCount     int     // application requests that should become replay directives
	NoiseCount     int     // excluded requests interleaved with the application traffic
	TokenRotations int     // distinct anti-forgery tokens across the session (0 = no token header)
	SlowCount      int     // application requests slower than SlowThreshold
	SlowThreshold  float64 // milliseconds (default: 10000)
	LoginRetries   int     // failed logins recorded before the successful one
	SkipLogin      bool    // omit the login request entirely
	Username       string  // default: admin
	Password       string  // default: smartvm
	DictionaryPath string  // word list for paths and params (default: built-in vocabulary)
	Seed           int64   // random seed for reproducibility (0 = use time)
}

// DefaultGenerateOptions provides sensible defaults
var DefaultGenerateOptions = GenerateOptions{
	BaseURL:        "http://localhost:3000",
	EntryCount:     10,
	NoiseCount:     5,
	TokenRotations: 2,
	SlowCount:      1,
	SlowThreshold:  10000,
	Username:       "admin",
	Password:       "smartvm",
}

// Expectation records what a correct replay of the generated archive looks like
type Expectation struct {
	Username       string
	Password       string
	LoginAttempts  int
	Paths          []string // request paths of the application traffic, in order
	Excluded       int
	TokenRefreshes int
	Slow           int
}

// GenerateResult contains the generated file and its expectation
type GenerateResult struct {
	HARFilePath  string
	Expectation  *Expectation
	TotalEntries int
}

func applyDefaults(opts GenerateOptions) GenerateOptions {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultGenerateOptions.BaseURL
	}
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = DefaultGenerateOptions.SlowThreshold
	}
	if opts.Username == "" {
		opts.Username = DefaultGenerateOptions.Username
	}
	if opts.Password == "" {
		opts.Password = DefaultGenerateOptions.Password
	}
	if opts.SlowCount > opts.EntryCount {
		opts.SlowCount = opts.EntryCount
	}
	return opts
}

// GenerateSession creates a session archive in memory
func GenerateSession(opts GenerateOptions) (*harhar.HAR, *Expectation, error) {
	if opts.EntryCount < 0 || opts.NoiseCount < 0 || opts.TokenRotations < 0 || opts.LoginRetries < 0 || opts.SlowCount < 0 {
		return nil, nil, fmt.Errorf("counts must not be negative")
	}
	opts = applyDefaults(opts)

	// local rng, never the global one
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dict, err := LoadDictionary(opts.DictionaryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	gen := newSessionGenerator(dict, rng, opts)
	entries, expect := gen.generate()

	har := &harhar.HAR{
		Log: harhar.Log{
			Version: "1.2",
			Creator: harhar.Creator{
				Name:    "hargen",
				Version: "1.0.0",
			},
			Entries: entries,
		},
	}

	return har, expect, nil
}

// Generate writes a session archive to a temporary file
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	tmpFile, err := os.CreateTemp("", "hargen-*.har")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpFile.Close()

	result, err := GenerateToFile(tmpFile.Name(), opts)
	if err != nil {
		os.Remove(tmpFile.Name())
		return nil, err
	}
	return result, nil
}

// GenerateToFile generates a session archive and writes it to path
func GenerateToFile(path string, opts GenerateOptions) (*GenerateResult, error) {
	har, expect, err := GenerateSession(opts)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(har); err != nil {
		return nil, fmt.Errorf("failed to write har: %w", err)
	}

	return &GenerateResult{
		HARFilePath:  path,
		Expectation:  expect,
		TotalEntries: len(har.Log.Entries),
	}, nil
}

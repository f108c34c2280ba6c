package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"` // "auto", "console", or "json"
	Level  string `toml:"level"`
}

// Batch contains configuration for concurrent batch processing.
type Batch struct {
	// Workers bounds how many files are processed concurrently.
	// Zero means "number of CPUs".
	Workers int `toml:"workers"`
}

// Pipeline contains retry and timeout configuration for backend steps.
type Pipeline struct {
	// RetryBudget is the number of retries after the first attempt for
	// transient failures.
	RetryBudget int `toml:"retry_budget"`
	// RetryBackoffMS is the base backoff in milliseconds; it doubles per
	// attempt.
	RetryBackoffMS int `toml:"retry_backoff_ms"`
	// StepTimeoutSeconds bounds a single backend invocation. Expiry is a
	// transient failure and counts against the retry budget.
	StepTimeoutSeconds int `toml:"step_timeout_seconds"`
}

// Cache contains configuration for the result cache.
type Cache struct {
	// Dir holds the durable cache database. Empty disables persistence;
	// the in-memory cache still applies within a run.
	Dir        string `toml:"dir"`
	MaxEntries int    `toml:"max_entries"`
	MaxBytes   int64  `toml:"max_bytes"`
}

// Dedup contains configuration for hashing and duplicate detection.
type Dedup struct {
	// HashSize is the perceptual hash edge length; 8 yields a 64-bit hash.
	HashSize int `toml:"hash_size"`
	// NearDuplicateThreshold is the maximum Hamming distance at which two
	// perceptual hashes are considered duplicates.
	NearDuplicateThreshold int `toml:"near_duplicate_threshold"`
}

// Transcribe contains configuration for the speech-to-text backend.
type Transcribe struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"` // "auto" lets the model detect
}

// RemoveBackground contains configuration for the background removal backend.
type RemoveBackground struct {
	Binary string `toml:"binary"`
}

// Config encapsulates all configuration values for the toolkit.
//
// Sections by subsystem:
//   - Logging: log format and level
//   - Batch: worker pool sizing
//   - Pipeline: retry budget, backoff, and step timeouts
//   - Cache: result cache bounds and durable store location
//   - Dedup: perceptual hash sizing and duplicate threshold
//   - Transcribe: whisper.cpp binary and model selection
//   - RemoveBackground: rembg binary
type Config struct {
	Logging          Logging          `toml:"logging"`
	Batch            Batch            `toml:"batch"`
	Pipeline         Pipeline         `toml:"pipeline"`
	Cache            Cache            `toml:"cache"`
	Dedup            Dedup            `toml:"dedup"`
	Transcribe       Transcribe       `toml:"transcribe"`
	RemoveBackground RemoveBackground `toml:"remove_background"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediatools/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The bool reports
// whether a config file was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediatools.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache directory when persistence is enabled.
func (c *Config) EnsureDirectories() error {
	if c.Cache.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Cache.Dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Cache.Dir, err)
	}
	return nil
}

// CreateSample writes the embedded sample configuration to target.
func CreateSample(target string) error {
	return os.WriteFile(target, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	var err error

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.Cache.Dir = strings.TrimSpace(c.Cache.Dir)
	if c.Cache.Dir != "" {
		if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
			return fmt.Errorf("cache.dir: %w", err)
		}
	}

	c.Transcribe.Binary = strings.TrimSpace(c.Transcribe.Binary)
	if c.Transcribe.Binary == "" {
		c.Transcribe.Binary = defaultTranscribeBinary
	}
	c.Transcribe.Language = strings.TrimSpace(c.Transcribe.Language)
	if c.Transcribe.Language == "" {
		c.Transcribe.Language = defaultTranscribeLanguage
	}

	c.RemoveBackground.Binary = strings.TrimSpace(c.RemoveBackground.Binary)
	if c.RemoveBackground.Binary == "" {
		c.RemoveBackground.Binary = defaultRemoveBackgroundBin
	}

	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("resolve home directory")
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}

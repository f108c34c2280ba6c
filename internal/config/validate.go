package config

import (
	"errors"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateDedup(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return errors.New("logging.format must be auto, console, or json")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be debug, info, warn, or error")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must not be negative")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.RetryBudget < 0 {
		return errors.New("pipeline.retry_budget must not be negative")
	}
	if c.Pipeline.RetryBackoffMS < 0 {
		return errors.New("pipeline.retry_backoff_ms must not be negative")
	}
	if c.Pipeline.StepTimeoutSeconds <= 0 {
		return errors.New("pipeline.step_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MaxEntries <= 0 {
		return errors.New("cache.max_entries must be positive")
	}
	if c.Cache.MaxBytes <= 0 {
		return errors.New("cache.max_bytes must be positive")
	}
	return nil
}

func (c *Config) validateDedup() error {
	if c.Dedup.HashSize < 2 {
		return errors.New("dedup.hash_size must be at least 2")
	}
	if c.Dedup.NearDuplicateThreshold < 0 {
		return errors.New("dedup.near_duplicate_threshold must not be negative")
	}
	maxBits := c.Dedup.HashSize * c.Dedup.HashSize
	if c.Dedup.NearDuplicateThreshold >= maxBits {
		return errors.New("dedup.near_duplicate_threshold must be below hash_size squared")
	}
	return nil
}

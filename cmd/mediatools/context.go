package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/batch"
	"mediatools/internal/cache"
	"mediatools/internal/config"
	"mediatools/internal/logging"
	"mediatools/internal/pipeline"
	"mediatools/internal/services/imagehash"
	"mediatools/internal/services/rembg"
	"mediatools/internal/services/whisper"
)

type commandContext struct {
	configFlag   *string
	jsonFlag     *bool
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		jsonFlag:     jsonFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// registryOptions selects which slots a command's registry fills.
type registryOptions struct {
	hash       bool
	transcribe bool
	removeBG   bool
	// alignReference enables the subtitle alignment slot against the
	// given track; an empty track enables it in prior-transcript mode.
	align          bool
	alignReference artifact.SubtitleTrack
}

func (c *commandContext) newRegistry(opts registryOptions) (*backend.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	reg := backend.NewRegistry()
	if opts.hash {
		reg.Register(backend.NewHashBackend(imagehash.NewHasher(cfg.Dedup.HashSize)))
	}
	if opts.transcribe {
		svc := whisper.NewService(whisper.Config{
			Binary:   cfg.Transcribe.Binary,
			Model:    cfg.Transcribe.Model,
			Language: cfg.Transcribe.Language,
		})
		reg.Register(backend.NewTranscribeBackend(svc))
	}
	if opts.removeBG {
		svc := rembg.NewService(rembg.Config{Binary: cfg.RemoveBackground.Binary})
		reg.Register(backend.NewRemoveBGBackend(svc))
	}
	if opts.align {
		reg.Register(backend.NewAlignBackend(opts.alignReference))
	}
	return reg, nil
}

// openCache builds the result cache, attaching the durable store when a
// cache directory is configured. The returned closer releases the store.
func (c *commandContext) openCache() (*cache.ResultCache, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	opts := cache.Options{
		MaxEntries: cfg.Cache.MaxEntries,
		MaxBytes:   cfg.Cache.MaxBytes,
		Logger:     logger,
	}
	closer := func() {}
	if cfg.Cache.Dir != "" {
		store, err := cache.OpenSQLite(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		opts.Store = store
		closer = func() { _ = store.Close() }
	}
	return cache.New(opts), closer, nil
}

// newOrchestrator wires a registry, cache, pipeline, and worker pool from
// the effective configuration.
func (c *commandContext) newOrchestrator(opts registryOptions) (*batch.Orchestrator, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	reg, err := c.newRegistry(opts)
	if err != nil {
		return nil, nil, err
	}
	resultCache, closer, err := c.openCache()
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(pipeline.Options{
		Registry:     reg,
		Cache:        resultCache,
		RetryBudget:  cfg.Pipeline.RetryBudget,
		RetryBackoff: time.Duration(cfg.Pipeline.RetryBackoffMS) * time.Millisecond,
		StepTimeout:  time.Duration(cfg.Pipeline.StepTimeoutSeconds) * time.Second,
		Logger:       logger,
	})
	o := batch.New(batch.Options{
		Pipeline: p,
		Workers:  cfg.Batch.Workers,
		Logger:   logger,
	})
	return o, closer, nil
}

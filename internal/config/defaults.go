package config

const (
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
	defaultRetryBudget         = 2
	defaultRetryBackoffMS      = 500
	defaultStepTimeoutSeconds  = 1800
	defaultCacheDir            = "~/.cache/mediatools"
	defaultCacheMaxEntries     = 4096
	defaultCacheMaxBytes       = 256 << 20
	defaultHashSize            = 8
	defaultNearDupThreshold    = 5
	defaultTranscribeBinary    = "whisper-cli"
	defaultTranscribeModel     = "base"
	defaultTranscribeLanguage  = "auto"
	defaultRemoveBackgroundBin = "rembg"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Batch: Batch{
			Workers: 0,
		},
		Pipeline: Pipeline{
			RetryBudget:        defaultRetryBudget,
			RetryBackoffMS:     defaultRetryBackoffMS,
			StepTimeoutSeconds: defaultStepTimeoutSeconds,
		},
		Cache: Cache{
			Dir:        defaultCacheDir,
			MaxEntries: defaultCacheMaxEntries,
			MaxBytes:   defaultCacheMaxBytes,
		},
		Dedup: Dedup{
			HashSize:               defaultHashSize,
			NearDuplicateThreshold: defaultNearDupThreshold,
		},
		Transcribe: Transcribe{
			Binary:   defaultTranscribeBinary,
			Model:    defaultTranscribeModel,
			Language: defaultTranscribeLanguage,
		},
		RemoveBackground: RemoveBackground{
			Binary: defaultRemoveBackgroundBin,
		},
	}
}

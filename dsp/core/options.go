package core

// Stream defaults used until the host supplies its own settings.
const (
	DefaultSampleRate   = 48000.0
	DefaultMaxBlockSize = 512
)

// ProcessorConfig holds the stream settings handed to a processor once at
// stream start.
type ProcessorConfig struct {
	SampleRate   float64
	MaxBlockSize int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the settings used until the host calls
// Prepare.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   DefaultSampleRate,
		MaxBlockSize: DefaultMaxBlockSize,
	}
}

// WithSampleRate sets the processing sample rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block the host will deliver.
// Non-positive values are ignored.
func WithMaxBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.MaxBlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Nyquist returns half the configured sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}

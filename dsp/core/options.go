package core

import "runtime"

// ProcessorConfig defines settings shared by batch processing stages.
type ProcessorConfig struct {
	// SampleRate is the target output rate in Hz. Zero keeps the input rate.
	SampleRate int
	// Workers bounds per-row parallelism.
	Workers int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig keeps the input rate and uses one worker per CPU.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// WithSampleRate sets the output sample rate.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithWorkers sets the number of rows processed concurrently.
func WithWorkers(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.Workers = n
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

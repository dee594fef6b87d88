package kdtree

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds tree settings read from the environment.
type Config struct {
	BucketSize        int `envconfig:"BUCKET_SIZE" default:"32"`
	ParallelThreshold int `envconfig:"PARALLEL_THRESHOLD" default:"4096"`
	MaxWorkers        int `envconfig:"MAX_WORKERS"`
}

// LoadConfig reads KDGO_BUCKET_SIZE, KDGO_PARALLEL_THRESHOLD and
// KDGO_MAX_WORKERS.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("kdgo", &cfg); err != nil {
		return Config{}, fmt.Errorf("kdtree: load config: %w", err)
	}

	if cfg.BucketSize < 1 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidBucketSize, cfg.BucketSize)
	}

	return cfg, nil
}

// Options converts the configuration into options. Unset fields keep their
// defaults.
func (c Config) Options() []Option {
	var opts []Option
	if c.BucketSize > 0 {
		opts = append(opts, WithBucketSize(c.BucketSize))
	}
	if c.ParallelThreshold > 0 {
		opts = append(opts, WithParallelThreshold(c.ParallelThreshold))
	}
	if c.MaxWorkers > 0 {
		opts = append(opts, WithMaxWorkers(c.MaxWorkers))
	}

	return opts
}

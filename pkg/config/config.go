// Package config loads engine tuning parameters from YAML. Every knob is
// a performance tuning parameter; none changes computed beliefs.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// EngineConfig tunes the diamond storage builder and propagation engine.
type EngineConfig struct {
	// Workers is the parallel builder's worker count; 0 means NumCPU and
	// 1 forces the sequential builder.
	Workers int `yaml:"workers" validate:"min=0,max=4096"`

	// CacheClearInterval is how many processed diamonds pass between
	// build-memo clears.
	CacheClearInterval int `yaml:"cache_clear_interval" validate:"min=1"`

	// ConditioningWarnLimit is the conditioning-set size above which a
	// performance warning is logged.
	ConditioningWarnLimit int `yaml:"conditioning_warn_limit" validate:"min=1,max=62"`

	// LogLevel controls structured log verbosity.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// Default returns the configuration used when no file is provided.
func Default() EngineConfig {
	return EngineConfig{
		Workers:               runtime.NumCPU(),
		CacheClearInterval:    512,
		ConditioningWarnLimit: 24,
		LogLevel:              "INFO",
	}
}

// Load reads and validates an engine config file. Missing fields fall back
// to defaults.
func Load(path string) (EngineConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field bounds.
func (c EngineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

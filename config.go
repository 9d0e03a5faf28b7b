package tpool

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of a pool configuration.
type FileConfig struct {
	Pool PoolConfig `yaml:"pool" json:"pool"`
}

type PoolConfig struct {
	Name           string `yaml:"name" json:"name"`
	Workers        int    `yaml:"workers" json:"workers"`
	RespawnOnPanic bool   `yaml:"respawn_on_panic" json:"respawn_on_panic"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
}

// logLevel parses LogLevel. The boolean is false when it is unset.
func (c PoolConfig) logLevel() (slog.Level, bool, error) {
	if c.LogLevel == "" {
		return 0, false, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, false, err
	}

	return l, true, nil
}

// LoadConfig reads a YAML or JSON configuration file, picked by extension.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &cfg, nil
}

func (f *FileConfig) Validate() error {
	if f.Pool.Workers <= 0 {
		return fmt.Errorf("pool.workers: %w: got %d", ErrInvalidThreadCount, f.Pool.Workers)
	}

	if _, _, err := f.Pool.logLevel(); err != nil {
		return fmt.Errorf("pool.log_level: %w", err)
	}

	return nil
}

// Options translates the file settings into pool options. An unparsable
// log level is skipped; Validate reports it.
func (f *FileConfig) Options() []func(*config) {
	var opts []func(*config)

	if f.Pool.Name != "" {
		opts = append(opts, WithName(f.Pool.Name))
	}
	if f.Pool.RespawnOnPanic {
		opts = append(opts, WithRespawnOnPanic())
	}
	if l, ok, err := f.Pool.logLevel(); ok && err == nil {
		opts = append(opts, WithLogLevel(l))
	}

	return opts
}

// NewFromConfig validates cfg and starts a pool from it. Options in opts
// are applied after the file settings and win over them. Unlike New, a bad
// worker count is reported as an error, since it comes from input rather
// than code.
func NewFromConfig(cfg *FileConfig, opts ...func(*config)) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thread pool config: %w", err)
	}

	return New(cfg.Pool.Workers, append(cfg.Options(), opts...)...), nil
}

// Package config loads the YAML configuration used by the cart command.
package config

import (
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/cart/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all cart configuration.
type Config struct {
	// Tree hyperparameters
	Tree TreeConfig `yaml:"tree"`

	// Training and evaluation data
	Data DataConfig `yaml:"data"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// TreeConfig configures tree induction.
type TreeConfig struct {
	Criterion       string `yaml:"criterion"`         // gini, entropy
	MaxDepth        int    `yaml:"max_depth"`         // -1 for unlimited
	MinSamplesSplit int    `yaml:"min_samples_split"` // 0 and 1 behave like 2
	MinSamplesLeaf  int    `yaml:"min_samples_leaf"`
	NJobs           int    `yaml:"n_jobs"` // -1 for all CPUs
}

// DataConfig configures where rows come from.
type DataConfig struct {
	Path        string       `yaml:"path"`         // training CSV
	TestPath    string       `yaml:"test_path"`    // optional held-out CSV
	LabelColumn int          `yaml:"label_column"` // -1 for the last column
	Header      bool         `yaml:"header"`
	SQLite      SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig reads training rows from a SQLite query instead of a CSV file.
type SQLiteConfig struct {
	Path  string `yaml:"path"`
	Query string `yaml:"query"`
}

// LoggingConfig configures the zerolog backend.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			Criterion:       "gini",
			MaxDepth:        -1,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			NJobs:           1,
		},
		Data: DataConfig{
			LabelColumn: -1,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("CART_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("CART_DATA"); path != "" {
		c.Data.Path = path
	}
}

// ValidCriteria lists the supported impurity criteria.
var ValidCriteria = []string{"gini", "entropy"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	valid := false
	for _, name := range ValidCriteria {
		if c.Tree.Criterion == name {
			valid = true
			break
		}
	}
	if !valid {
		return errors.NewValidationError("tree.criterion", "must be one of gini, entropy", c.Tree.Criterion)
	}
	if c.Tree.MaxDepth < -1 {
		return errors.NewValidationError("tree.max_depth", "must be -1 or non-negative", c.Tree.MaxDepth)
	}
	if c.Tree.MinSamplesSplit < 0 {
		return errors.NewValidationError("tree.min_samples_split", "must be non-negative", c.Tree.MinSamplesSplit)
	}
	if c.Tree.MinSamplesLeaf < 1 {
		return errors.NewValidationError("tree.min_samples_leaf", "must be at least 1", c.Tree.MinSamplesLeaf)
	}
	if c.Data.LabelColumn < -1 {
		return errors.NewValidationError("data.label_column", "must be -1 or a column index", c.Data.LabelColumn)
	}
	if (c.Data.SQLite.Path == "") != (c.Data.SQLite.Query == "") {
		return errors.NewValidationError("data.sqlite", "path and query must be set together", c.Data.SQLite)
	}
	return nil
}

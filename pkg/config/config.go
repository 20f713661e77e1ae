// Package config loads the YAML run file of the netensemble command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netensemble/pkg/ensemble"
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/sigclu"
	"github.com/dd0wney/cluso-netensemble/pkg/store"
	"github.com/dd0wney/cluso-netensemble/pkg/validation"
	"github.com/dd0wney/cluso-netensemble/pkg/visualization"
)

// Config is a complete run configuration
type Config struct {
	Ensemble ensemble.Config `yaml:"ensemble"`
	Sigclu   sigclu.Options  `yaml:"sigclu"`
	// Export is skipped when Path is empty
	Export visualization.UpsetOptions `yaml:"export"`
	Store  StoreConfig                `yaml:"store"`
	Log    LogConfig                  `yaml:"log"`
}

// StoreConfig selects where snapshots go. Both may be set; neither disables
// persistence.
type StoreConfig struct {
	Dir string          `yaml:"dir"`
	S3  *store.S3Config `yaml:"s3"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Ensemble: ensemble.DefaultConfig(),
		Sigclu:   sigclu.DefaultOptions(),
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a run file from r. Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv applies LOG_LEVEL
func (c *Config) ApplyEnv() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

// Validate checks every section
func (c Config) Validate() error {
	return validation.NewConfigValidator("config").
		Custom("ensemble", c.Ensemble.Validate).
		Custom("sigclu", c.Sigclu.Validate).
		When(c.Export.Path != "", func(cv *validation.ConfigValidator) {
			cv.Custom("export", c.Export.Validate)
		}).
		When(c.Store.S3 != nil, func(cv *validation.ConfigValidator) {
			cv.Struct("store.s3", c.Store.S3)
		}).
		OneOf("log.level", c.Log.Level, logLevels).
		Validate()
}

// UpsetOptions returns the export options, or nil when export is disabled
func (c Config) UpsetOptions() *visualization.UpsetOptions {
	if c.Export.Path == "" {
		return nil
	}
	opts := c.Export
	return &opts
}

// Logger builds the JSON logger for the configured level
func (c Config) Logger(w io.Writer) logging.Logger {
	return logging.NewJSONLogger(w, logging.ParseLevel(c.Log.Level))
}

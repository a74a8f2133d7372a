// Package config loads and validates chessql configuration.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Database   DatabaseConfig  `yaml:"database"`
	Ingest     IngestConfig    `yaml:"ingest"`
	Classifier classify.Policy `yaml:"classifier"`
	Query      QueryConfig     `yaml:"query"`
	Server     ServerConfig    `yaml:"server"`
	Log        LogConfig       `yaml:"log"`
}

// Default returns a Config with default values in every section.
func Default() *Config {
	return &Config{
		Database:   *NewDatabaseConfig(),
		Ingest:     *NewIngestConfig(),
		Classifier: classify.DefaultPolicy(),
		Query:      *NewQueryConfig(),
		Server:     *NewServerConfig(),
		Log:        *NewLogConfig(),
	}
}

// Load reads a YAML file. Fields the file leaves out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.Database.Validate,
		c.Ingest.Validate,
		c.Classifier.Validate,
		c.Query.Validate,
		c.Server.Validate,
		c.Log.Validate,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

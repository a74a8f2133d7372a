package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/lgbarn/chessql-go/internal/errors"
)

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// NewDatabaseConfig creates a DatabaseConfig with default values.
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{Path: "chessql.db"}
}

func (d *DatabaseConfig) Validate() error {
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("database path is empty: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// IngestConfig sizes the ingestion worker pool. ECOFile optionally names
// a PGN opening book used to classify games without an ECO tag.
type IngestConfig struct {
	Workers    int    `yaml:"workers"`
	BufferSize int    `yaml:"buffer_size"`
	ECOFile    string `yaml:"eco_file"`
}

// NewIngestConfig creates an IngestConfig with default values.
func NewIngestConfig() *IngestConfig {
	return &IngestConfig{Workers: 4, BufferSize: 64}
}

func (i *IngestConfig) Validate() error {
	if i.Workers < 1 {
		return fmt.Errorf("ingest workers %d must be at least 1: %w", i.Workers, errors.ErrInvalidConfig)
	}
	if i.BufferSize < 1 {
		return fmt.Errorf("ingest buffer size %d must be at least 1: %w", i.BufferSize, errors.ErrInvalidConfig)
	}
	return nil
}

// QueryConfig bounds query execution.
type QueryConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	DefaultLimit int           `yaml:"default_limit"`
	MaxLimit     int           `yaml:"max_limit"`
	CacheSize    int           `yaml:"cache_size"`
}

// NewQueryConfig creates a QueryConfig with default values.
func NewQueryConfig() *QueryConfig {
	return &QueryConfig{
		Timeout:      5 * time.Second,
		DefaultLimit: 100,
		MaxLimit:     1000,
		CacheSize:    256,
	}
}

func (q *QueryConfig) Validate() error {
	switch {
	case q.Timeout < 0:
		return fmt.Errorf("query timeout %s is negative: %w", q.Timeout, errors.ErrInvalidConfig)
	case q.DefaultLimit < 1:
		return fmt.Errorf("default limit %d must be at least 1: %w", q.DefaultLimit, errors.ErrInvalidConfig)
	case q.MaxLimit < q.DefaultLimit:
		return fmt.Errorf("max limit (%d) < default limit (%d): %w", q.MaxLimit, q.DefaultLimit, errors.ErrInvalidConfig)
	case q.CacheSize < 1:
		return fmt.Errorf("query cache size %d must be at least 1: %w", q.CacheSize, errors.ErrInvalidConfig)
	}
	return nil
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("server addr is empty: %w", errors.ErrInvalidConfig)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// NewLogConfig creates a LogConfig with default values.
func NewLogConfig() *LogConfig {
	return &LogConfig{Level: "info"}
}

func (l *LogConfig) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log level %q: %w", l.Level, errors.ErrInvalidConfig)
	}
	return nil
}

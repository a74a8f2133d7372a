package config

import "time"

// Builder applies command-line overrides on top of a loaded Config.
type Builder struct {
	cfg *Config
}

// NewBuilder starts from cfg, or from the defaults when cfg is nil.
func NewBuilder(cfg *Config) *Builder {
	if cfg == nil {
		cfg = Default()
	}
	return &Builder{cfg: cfg}
}

// Build validates and returns the Config.
func (b *Builder) Build() (*Config, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg, nil
}

// WithDatabasePath sets the store location. Empty values are ignored.
func (b *Builder) WithDatabasePath(path string) *Builder {
	if path != "" {
		b.cfg.Database.Path = path
	}
	return b
}

// WithWorkers sets the ingest pool size. Zero is ignored.
func (b *Builder) WithWorkers(n int) *Builder {
	if n != 0 {
		b.cfg.Ingest.Workers = n
	}
	return b
}

// WithServerAddr sets the HTTP listen address. Empty values are ignored.
func (b *Builder) WithServerAddr(addr string) *Builder {
	if addr != "" {
		b.cfg.Server.Addr = addr
	}
	return b
}

// WithQueryTimeout sets the query timeout. Zero is ignored.
func (b *Builder) WithQueryTimeout(d time.Duration) *Builder {
	if d != 0 {
		b.cfg.Query.Timeout = d
	}
	return b
}

// WithVerbose switches to debug logging with the development encoder.
func (b *Builder) WithVerbose(verbose bool) *Builder {
	if verbose {
		b.cfg.Log.Level = "debug"
		b.cfg.Log.Development = true
	}
	return b
}

// WithECOFile sets the opening book path. Empty values are ignored.
func (b *Builder) WithECOFile(path string) *Builder {
	if path != "" {
		b.cfg.Ingest.ECOFile = path
	}
	return b
}

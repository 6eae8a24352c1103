package config

import "time"

// TickerConfig is the root configuration for a tickerd instance.
type TickerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Feed     FeedConfig     `yaml:"feed"`
	Server   ServerConfig   `yaml:"server"`
	Render   RenderConfig   `yaml:"render"`
	Database DatabaseConfig `yaml:"database"`
	History  HistoryConfig  `yaml:"history"`
}

// InstanceConfig identifies this instance in logs and health output.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig holds price feed settings.
type FeedConfig struct {
	URL       string        `yaml:"url"`
	Currency  string        `yaml:"currency"` // bpi entry to display, e.g. "USD"
	Interval  time.Duration `yaml:"interval"` // refresh period
	Timeout   time.Duration `yaml:"timeout"`  // per-request timeout
	UserAgent string        `yaml:"user_agent"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RenderConfig holds view settings.
type RenderConfig struct {
	Seed uint64 `yaml:"seed"` // 0 = random per process
}

// DatabaseConfig holds the optional PostgreSQL connection for price history.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HistoryConfig holds history writer batch settings.
type HistoryConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

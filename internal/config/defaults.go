package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID      = "tickerd"
	DefaultFeedURL         = "https://api.coindesk.com/v1/bpi/currentprice.json"
	DefaultCurrency        = "USD"
	DefaultInterval        = 60 * time.Second
	DefaultFeedTimeout     = 10 * time.Second
	DefaultUserAgent       = "coin-ticker"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultBatchSize       = 100
	DefaultFlushInterval   = 5 * time.Second
	DefaultBufferSize      = 64
)

func (c *TickerConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// Feed defaults
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.Currency == "" {
		c.Feed.Currency = DefaultCurrency
	}
	if c.Feed.Interval == 0 {
		c.Feed.Interval = DefaultInterval
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = DefaultUserAgent
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// History defaults
	if c.History.BatchSize == 0 {
		c.History.BatchSize = DefaultBatchSize
	}
	if c.History.FlushInterval == 0 {
		c.History.FlushInterval = DefaultFlushInterval
	}
	if c.History.BufferSize == 0 {
		c.History.BufferSize = DefaultBufferSize
	}
}

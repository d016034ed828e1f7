package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGatewayURL          = "https://mainnet.radixdlt.com"
	DefaultGatewayNetworkID    = 1
	DefaultOracleURL           = "https://hermes.pyth.network/v2"
	DefaultGatewayTimeout      = 30 * time.Second
	DefaultMaxRetries          = 3
	DefaultRetryBackoff        = 1 * time.Second
	DefaultGatewayPollInterval = 2 * time.Second
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 10
	DefaultMinConns            = 2
	DefaultBatchSize           = 500
	DefaultFlushInterval       = 1 * time.Second
	DefaultBufferSize          = 10000
	DefaultPollInterval        = 1 * time.Minute
	DefaultPollConcurrency     = 4
	DefaultPollTimeout         = 30 * time.Second
	DefaultHealthPort          = 8080
)

func (c *RecorderConfig) applyDefaults() {
	// Gateway defaults
	if c.Gateway.URL == "" {
		c.Gateway.URL = DefaultGatewayURL
	}
	if c.Gateway.NetworkID == 0 {
		c.Gateway.NetworkID = DefaultGatewayNetworkID
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = DefaultGatewayTimeout
	}
	if c.Gateway.MaxRetries == 0 {
		c.Gateway.MaxRetries = DefaultMaxRetries
	}
	if c.Gateway.RetryBackoff == 0 {
		c.Gateway.RetryBackoff = DefaultRetryBackoff
	}
	if c.Gateway.PollInterval == 0 {
		c.Gateway.PollInterval = DefaultGatewayPollInterval
	}

	// Oracle defaults
	if c.Oracle.URL == "" {
		c.Oracle.URL = DefaultOracleURL
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Writers defaults
	if c.Writers.BatchSize == 0 {
		c.Writers.BatchSize = DefaultBatchSize
	}
	if c.Writers.FlushInterval == 0 {
		c.Writers.FlushInterval = DefaultFlushInterval
	}
	if c.Writers.BufferSize == 0 {
		c.Writers.BufferSize = DefaultBufferSize
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

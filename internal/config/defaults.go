package config

import (
	"strconv"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultPort           = 8080
	DefaultHeartbeat      = 30 * time.Second
	DefaultDatabasePath   = "lottoledger.db"
	DefaultPrizeFund      = "70"
	DefaultReserve        = "20"
	DefaultOperatorProfit = "10"
	DefaultCacheBackend   = "memory"
	DefaultCacheTTL       = 30 * time.Minute
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "lottoledger:agg:"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Heartbeat == 0 {
		c.Server.Heartbeat = DefaultHeartbeat
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	// An unset split falls back to the default split as a whole;
	// a partial split is left for Validate to reject.
	if c.Pots == (PotsConfig{}) {
		c.Pots = PotsConfig{
			PrizeFund:      DefaultPrizeFund,
			Reserve:        DefaultReserve,
			OperatorProfit: DefaultOperatorProfit,
		}
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

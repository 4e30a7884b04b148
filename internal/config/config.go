// Package config loads the back-office configuration from YAML with
// ${VAR} expansion and optional .env files.
package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// Config is the root configuration for a lottoledger instance.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Pots     PotsConfig     `yaml:"pots"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Heartbeat time.Duration `yaml:"heartbeat"` // pot balance re-broadcast interval
}

// DatabaseConfig points at the sqlite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PotsConfig holds the percentage of every stake credited to each pot.
// Percentages are strings so they parse exactly.
type PotsConfig struct {
	PrizeFund      string `yaml:"prize_fund"`
	Reserve        string `yaml:"reserve"`
	OperatorProfit string `yaml:"operator_profit"`
}

// CacheConfig selects the aggregation cache backend.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory or redis
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig holds the connection used when Cache.Backend is redis.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + itoa(c.Server.Port)
}

// PotSplit returns the configured pots in distribution order.
// Call it after Validate; unparsable percentages become zero.
func (c *Config) PotSplit() []models.Pot {
	return []models.Pot{
		{Name: models.PotPrizeFund, Percentage: parsePct(c.Pots.PrizeFund)},
		{Name: models.PotReserve, Percentage: parsePct(c.Pots.Reserve)},
		{Name: models.PotOperatorProfit, Percentage: parsePct(c.Pots.OperatorProfit)},
	}
}

func parsePct(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

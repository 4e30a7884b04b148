package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validate checks the configuration for values the services cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Heartbeat < 0 {
		return errors.New("server.heartbeat must not be negative")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if err := c.Pots.validate(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	return nil
}

func (p PotsConfig) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"pots.prize_fund", p.PrizeFund},
		{"pots.reserve", p.Reserve},
		{"pots.operator_profit", p.OperatorProfit},
	}

	sum := decimal.Zero
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return fmt.Errorf("%s must be a number, got %q", f.name, f.value)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		sum = sum.Add(d)
	}
	if !sum.Equal(hundred) {
		return fmt.Errorf("pot percentages must sum to 100, got %s", sum)
	}
	return nil
}

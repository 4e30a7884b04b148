package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abrezinsky/lottoledger/internal/models"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  port: 9000
database:
  path: /var/lib/lottoledger/ledger.db
pots:
  prize_fund: "65"
  reserve: "25"
  operator_profit: "10"
cache:
  backend: redis
  ttl: 5m
redis:
  addr: cache:6379
  db: 2
`
	cfg, err := Load(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/var/lib/lottoledger/ledger.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Pots.Reserve != "25" {
		t.Errorf("Pots.Reserve = %q, want %q", cfg.Pots.Reserve, "25")
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "secret123")

	yaml := `
cache:
  backend: redis
redis:
  password: ${TEST_REDIS_PASSWORD}
`
	cfg, err := Load(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Redis.Password != "secret123" {
		t.Errorf("Redis.Password = %q, want %q", cfg.Redis.Password, "secret123")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeTempFile(t, "server: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, "server:\n  host: 127.0.0.1\n"))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Heartbeat != DefaultHeartbeat {
		t.Errorf("Server.Heartbeat = %v, want %v", cfg.Server.Heartbeat, DefaultHeartbeat)
	}
	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, DefaultDatabasePath)
	}
	if cfg.Pots.PrizeFund != DefaultPrizeFund || cfg.Pots.OperatorProfit != DefaultOperatorProfit {
		t.Errorf("Pots = %+v", cfg.Pots)
	}
	if cfg.Cache.Backend != DefaultCacheBackend || cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Redis.KeyPrefix != DefaultRedisKeyPrefix {
		t.Errorf("Redis.KeyPrefix = %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadWithDefaults_EmptyPath(t *testing.T) {
	cfg, err := LoadWithDefaults("")
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr(), ":8080")
	}
}

func TestLoadWithDefaults_PartialPotsNotFilled(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, "pots:\n  prize_fund: \"80\"\n"))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Pots.Reserve != "" {
		t.Errorf("partial split should not be filled, got %+v", cfg.Pots)
	}
}

func TestLoadAndValidate(t *testing.T) {
	_, err := LoadAndValidate(writeTempFile(t, "cache:\n  backend: memcached\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.HasPrefix(err.Error(), "validate config: ") {
		t.Errorf("error = %q, want validate config prefix", err)
	}

	cfg, err := LoadAndValidate(writeTempFile(t, "server:\n  port: 8181\n"))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port must be between 1 and 65535, got 0"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port must be between 1 and 65535, got 70000"},
		{"negative heartbeat", func(c *Config) { c.Server.Heartbeat = -time.Second }, "server.heartbeat must not be negative"},
		{"no database", func(c *Config) { c.Database.Path = "" }, "database.path is required"},
		{"missing pot", func(c *Config) { c.Pots.Reserve = "" }, "pots.reserve is required"},
		{"bad pot", func(c *Config) { c.Pots.PrizeFund = "seventy" }, `pots.prize_fund must be a number, got "seventy"`},
		{"negative pot", func(c *Config) { c.Pots.OperatorProfit = "-10"; c.Pots.PrizeFund = "90" }, "pots.operator_profit must not be negative"},
		{"sum under 100", func(c *Config) { c.Pots.PrizeFund = "60" }, "pot percentages must sum to 100, got 90"},
		{"fractional split", func(c *Config) { c.Pots = PotsConfig{"33.34", "33.33", "33.33"} }, ""},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "disk" }, `cache.backend must be memory or redis, got "disk"`},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Redis.Addr = "" }, "redis.addr is required when cache.backend is redis"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPotSplit(t *testing.T) {
	cfg := Default()
	cfg.Pots = PotsConfig{PrizeFund: "72.5", Reserve: "17.5", OperatorProfit: "10"}

	pots := cfg.PotSplit()
	if len(pots) != 3 {
		t.Fatalf("expected 3 pots, got %d", len(pots))
	}
	for i, name := range models.PotNames {
		if pots[i].Name != name {
			t.Errorf("pot %d = %s, want %s", i, pots[i].Name, name)
		}
	}
	if pots[0].Percentage.String() != "72.5" {
		t.Errorf("prize fund = %s, want 72.5", pots[0].Percentage)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("LOTTO_TEST_DB=/tmp/from-env.db\nLOTTO_TEST_KEEP=file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("LOTTO_TEST_KEEP", "process")
	t.Setenv("LOTTO_TEST_DB", "")
	os.Unsetenv("LOTTO_TEST_DB")

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("LoadEnvFiles failed: %v", err)
	}
	if got := os.Getenv("LOTTO_TEST_DB"); got != "/tmp/from-env.db" {
		t.Errorf("LOTTO_TEST_DB = %q", got)
	}
	if got := os.Getenv("LOTTO_TEST_KEEP"); got != "process" {
		t.Errorf("existing variables should win, got %q", got)
	}

	cfg, err := LoadWithDefaults(writeTempFile(t, "database:\n  path: ${LOTTO_TEST_DB}\n"))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

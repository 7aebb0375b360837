package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: development
fred:
  api_key: test-key
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Fred.Series.PolicyRate != "DFF" || c.Fred.Series.VIX != "VIXCLS" {
		t.Fatalf("expected default series ids, got %+v", c.Fred.Series)
	}
	if c.Fred.Series.HomePriceIndex != "CSUSHPINSA" || c.Fred.Series.HousingStarts != "HOUST" {
		t.Fatalf("expected default housing ids, got %+v", c.Fred.Series)
	}
	if c.Alerts.PollInterval != 5*time.Minute {
		t.Fatalf("expected default poll interval, got %s", c.Alerts.PollInterval)
	}
	if c.Cache.SeriesTTL != 15*time.Minute {
		t.Fatalf("expected default series ttl, got %s", c.Cache.SeriesTTL)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: production
fred:
  api_key: k
  series:
    policy_rate: FEDFUNDS
alerts:
  poll_interval: 10m
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Fred.Series.PolicyRate != "FEDFUNDS" {
		t.Fatalf("explicit series id overridden: %s", c.Fred.Series.PolicyRate)
	}
	if c.Fred.Series.Yield10Y != "DGS10" {
		t.Fatalf("missing ids should still default: %s", c.Fred.Series.Yield10Y)
	}
	if c.Alerts.PollInterval != 10*time.Minute {
		t.Fatalf("unexpected poll interval %s", c.Alerts.PollInterval)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing environment", "fred:\n  api_key: k\n"},
		{"missing api key", "environment: development\n"},
		{"poll interval too short", "environment: development\nfred:\n  api_key: k\nalerts:\n  poll_interval: 10s\n"},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_HOST", "redis.internal")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Fred.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %s", c.Fred.APIKey)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "k1:9092" {
		t.Fatalf("unexpected brokers %v", c.Kafka.Brokers)
	}
	if c.Redis.Host != "redis.internal" {
		t.Fatalf("unexpected redis host %s", c.Redis.Host)
	}
}

func TestLoadWithEnvSuppliesAPIKey(t *testing.T) {
	t.Setenv("FRED_API_KEY", "env-only")

	// file carries no key at all; the env var alone must satisfy validation
	c, err := LoadWithEnv(writeConfig(t, "environment: development\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Fred.APIKey != "env-only" {
		t.Fatalf("unexpected api key %s", c.Fred.APIKey)
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Fred struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		Series  struct {
			PolicyRate      string `yaml:"policy_rate"`
			Yield10Y        string `yaml:"yield_10y"`
			Yield3M         string `yaml:"yield_3m"`
			VIX             string `yaml:"vix"`
			HighYieldSpread string `yaml:"high_yield_spread"`
			InvGradeSpread  string `yaml:"inv_grade_spread"`
			HomePriceIndex  string `yaml:"home_price_index"`
			HousingStarts   string `yaml:"housing_starts"`
		} `yaml:"series"`
	} `yaml:"fred"`
	Alerts struct {
		PollInterval  time.Duration `yaml:"poll_interval"`
		QueueWorkers  int           `yaml:"queue_workers"`
		QueueSize     int           `yaml:"queue_size"`
		RetryLimit    int           `yaml:"retry_limit"`
		RetryDelay    time.Duration `yaml:"retry_delay"`
		MaxPerSecond  int           `yaml:"max_per_second"`
		BufferSize    int           `yaml:"buffer_size"`
	} `yaml:"alerts"`
	Cache struct {
		SeriesTTL time.Duration `yaml:"series_ttl"`
	} `yaml:"cache"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Validation runs after the overrides so secrets like the FRED
// API key may come from the environment alone.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Fred.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// applyDefaults fills the well-known FRED series ids and operational knobs
// so a minimal config file still works.
func (c *Config) applyDefaults() {
	s := &c.Fred.Series
	if s.PolicyRate == "" {
		s.PolicyRate = "DFF"
	}
	if s.Yield10Y == "" {
		s.Yield10Y = "DGS10"
	}
	if s.Yield3M == "" {
		s.Yield3M = "DGS3MO"
	}
	if s.VIX == "" {
		s.VIX = "VIXCLS"
	}
	if s.HighYieldSpread == "" {
		s.HighYieldSpread = "BAMLH0A0HYM2"
	}
	if s.InvGradeSpread == "" {
		s.InvGradeSpread = "BAMLC0A0CM"
	}
	if s.HomePriceIndex == "" {
		s.HomePriceIndex = "CSUSHPINSA"
	}
	if s.HousingStarts == "" {
		s.HousingStarts = "HOUST"
	}
	if c.Alerts.PollInterval <= 0 {
		c.Alerts.PollInterval = 5 * time.Minute
	}
	if c.Cache.SeriesTTL <= 0 {
		c.Cache.SeriesTTL = 15 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Fred.APIKey == "" {
		return fmt.Errorf("fred.api_key is required")
	}
	if c.Alerts.PollInterval < time.Minute {
		return fmt.Errorf("alerts.poll_interval must be at least 1m, got %s", c.Alerts.PollInterval)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fallback policies for the fetch pipeline. Exactly one applies per
// deployment, uniformly across every polled kind.
const (
	PolicySynthetic = "synthetic"
	PolicyError     = "error"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Market struct {
		AssetsURL  string        `yaml:"assets_url"`
		GlobalURL  string        `yaml:"global_url"`
		AssetLimit int           `yaml:"asset_limit"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"market"`
	Exchange struct {
		MainnetURL string        `yaml:"mainnet_url"`
		TestnetURL string        `yaml:"testnet_url"`
		RecvWindow time.Duration `yaml:"recv_window"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"exchange"`
	Polling struct {
		FallbackPolicy string   `yaml:"fallback_policy"`
		BatchSize      int      `yaml:"batch_size"`
		Market         PollSpec `yaml:"market"`
		Stats          PollSpec `yaml:"stats"`
		Activity       PollSpec `yaml:"activity"`
		Orders         PollSpec `yaml:"orders"`
	} `yaml:"polling"`
	Session struct {
		Prefix   string        `yaml:"prefix"`
		TokenTTL time.Duration `yaml:"token_ttl"`
		Redis    struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"session"`
	Events struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"events"`
	Auth struct {
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
		TempPassword  string `yaml:"temp_password"`
	} `yaml:"auth"`
}

// PollSpec configures one polled stream.
type PollSpec struct {
	Interval time.Duration `yaml:"interval"`
	Retries  int           `yaml:"retries"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		c.Auth.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Auth.AdminPassword = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Session.Redis.Password = v
	}
	if v := os.Getenv("FALLBACK_POLICY"); v != "" {
		c.Polling.FallbackPolicy = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Polling.FallbackPolicy == "" {
		c.Polling.FallbackPolicy = PolicySynthetic
	}
	if c.Polling.BatchSize == 0 {
		c.Polling.BatchSize = 5
	}
	if c.Polling.Market.Interval == 0 {
		c.Polling.Market.Interval = 60 * time.Second
		c.Polling.Market.Retries = 1
	}
	if c.Polling.Stats.Interval == 0 {
		c.Polling.Stats.Interval = 30 * time.Second
		c.Polling.Stats.Retries = 2
	}
	if c.Polling.Activity.Interval == 0 {
		c.Polling.Activity.Interval = 15 * time.Second
		c.Polling.Activity.Retries = 2
	}
	if c.Polling.Orders.Interval == 0 {
		c.Polling.Orders.Interval = 30 * time.Second
		c.Polling.Orders.Retries = 2
	}
	if c.Market.AssetsURL == "" {
		c.Market.AssetsURL = "https://api.coincap.io/v2/assets"
	}
	if c.Market.GlobalURL == "" {
		c.Market.GlobalURL = "https://api.coingecko.com/api/v3/global"
	}
	if c.Market.AssetLimit == 0 {
		c.Market.AssetLimit = 10
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = 10 * time.Second
	}
	if c.Exchange.MainnetURL == "" {
		c.Exchange.MainnetURL = "https://api.binance.com/api/v3"
	}
	if c.Exchange.TestnetURL == "" {
		c.Exchange.TestnetURL = "https://testnet.binance.vision/api/v3"
	}
	if c.Exchange.RecvWindow == 0 {
		c.Exchange.RecvWindow = 5 * time.Second
	}
	if c.Exchange.Timeout == 0 {
		c.Exchange.Timeout = 10 * time.Second
	}
	if c.Session.Prefix == "" {
		c.Session.Prefix = "baratcx"
	}
	if c.Session.TokenTTL == 0 {
		c.Session.TokenTTL = 12 * time.Hour
	}
	if c.Auth.TempPassword == "" {
		c.Auth.TempPassword = "temp123"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Polling.FallbackPolicy != PolicySynthetic && c.Polling.FallbackPolicy != PolicyError {
		return fmt.Errorf("polling.fallback_policy must be '%s' or '%s', got '%s'",
			PolicySynthetic, PolicyError, c.Polling.FallbackPolicy)
	}
	if c.Auth.AdminEmail == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("auth.admin_email and auth.admin_password are required")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	if c.Events.Enabled && c.Events.Topic == "" {
		return fmt.Errorf("events.topic is required when events are enabled")
	}
	return nil
}

// Spec returns the poll spec for a kind name.
func (c *Config) Spec(kind string) PollSpec {
	switch kind {
	case "market":
		return c.Polling.Market
	case "stats":
		return c.Polling.Stats
	case "activity":
		return c.Polling.Activity
	default:
		return c.Polling.Orders
	}
}

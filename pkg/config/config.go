package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"MarketAtlas/pkg/logger"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// NewsSource is one entry of the static news registry.
type NewsSource struct {
	ID     string  `yaml:"id"`
	Label  string  `yaml:"label"`
	Weight float64 `yaml:"weight"`
	Focus  string  `yaml:"focus"`
	Feed   string  `yaml:"feed"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORS            bool          `yaml:"cors" default:"true"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log     logger.Config `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`
	Upstream struct {
		Timeout   time.Duration `yaml:"timeout" default:"8s"`
		UserAgent string        `yaml:"user_agent" default:"MarketAtlas/1.0"`
	} `yaml:"upstream"`
	Binance struct {
		SpotHosts    []string `yaml:"spot_hosts"`
		FuturesHosts []string `yaml:"futures_hosts"`
	} `yaml:"binance"`
	Bybit struct {
		Hosts []string `yaml:"hosts"`
	} `yaml:"bybit"`
	CoinMarketCap struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url" default:"https://pro-api.coinmarketcap.com"`
	} `yaml:"coinmarketcap"`
	News struct {
		LimitPerSource int          `yaml:"limit_per_source" default:"20"`
		MaxItems       int          `yaml:"max_items" default:"100"`
		Sources        []NewsSource `yaml:"sources"`
	} `yaml:"news"`
	Cache struct {
		Backend   string        `yaml:"backend" default:"memory"` // none, memory or redis
		MarketTTL time.Duration `yaml:"market_ttl" default:"2s"`
		NewsTTL   time.Duration `yaml:"news_ttl" default:"60s"`
		QuotesTTL time.Duration `yaml:"quotes_ttl" default:"60s"`
		L1TTL     time.Duration `yaml:"l1_ttl" default:"1s"` // in-process layer in front of redis, 0 disables
		Redis     struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled" default:"true"`
		RPS     float64 `yaml:"rps" default:"10"`
		Burst   int     `yaml:"burst" default:"20"`
	} `yaml:"rate_limit"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"marketatlas.source-errors"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"500ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"5s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Default returns a config populated from defaults only.
func Default() (*Config, error) {
	return Load("")
}

// Load reads and parses a YAML configuration file over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	c.fillHosts()
	return &c, nil
}

// LoadWithEnv loads config from YAML, overrides with environment variables and validates.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) fillHosts() {
	if len(c.Binance.SpotHosts) == 0 {
		c.Binance.SpotHosts = []string{"https://api.binance.com", "https://api1.binance.com", "https://api2.binance.com"}
	}
	if len(c.Binance.FuturesHosts) == 0 {
		c.Binance.FuturesHosts = []string{"https://fapi.binance.com"}
	}
	if len(c.Bybit.Hosts) == 0 {
		c.Bybit.Hosts = []string{"https://api.bybit.com", "https://api.bytick.com"}
	}
	if len(c.News.Sources) == 0 {
		c.News.Sources = DefaultNewsSources()
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("CMC_API_KEY"); v != "" {
		c.CoinMarketCap.APIKey = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = "redis"
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
}

// Validate checks if the configuration is valid.
// The aggregator credential is checked at call time, not here.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be 'none', 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.News.LimitPerSource <= 0 || c.News.MaxItems <= 0 {
		return fmt.Errorf("news limits must be positive")
	}
	seen := make(map[string]struct{}, len(c.News.Sources))
	for _, s := range c.News.Sources {
		id := strings.ToLower(strings.TrimSpace(s.ID))
		if id == "" || s.Feed == "" {
			return fmt.Errorf("news source requires id and feed")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate news source %q", id)
		}
		seen[id] = struct{}{}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	return nil
}

// DefaultNewsSources is the built-in news registry.
func DefaultNewsSources() []NewsSource {
	return []NewsSource{
		{ID: "coindesk", Label: "CoinDesk", Weight: 1.0, Focus: "markets", Feed: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
		{ID: "cointelegraph", Label: "Cointelegraph", Weight: 0.9, Focus: "markets", Feed: "https://cointelegraph.com/rss"},
		{ID: "decrypt", Label: "Decrypt", Weight: 0.8, Focus: "web3", Feed: "https://decrypt.co/feed"},
		{ID: "theblock", Label: "The Block", Weight: 0.9, Focus: "research", Feed: "https://www.theblock.co/rss.xml"},
		{ID: "bitcoinmagazine", Label: "Bitcoin Magazine", Weight: 0.7, Focus: "bitcoin", Feed: "https://bitcoinmagazine.com/.rss/full/"},
	}
}

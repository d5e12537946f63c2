// Package config loads tracker configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// Platform names for the price source backing the tracker.
const (
	PlatformCoingecko = "coingecko"
	PlatformBinance   = "binance"
	PlatformBybit     = "bybit"
)

// Config runtime configuration of the tracker.
type Config struct {
	// Platform price source backend: coingecko, binance or bybit.
	Platform string
	// ListenAddr address of the HTTP dashboard.
	ListenAddr string
	// DataDir root directory for WAL storage and the user registry.
	DataDir string
	// BenchmarkAsset asset id used for the benchmark delta.
	BenchmarkAsset string
	// PriceCacheTTL freshness window before prices are refetched.
	PriceCacheTTL time.Duration
	// CoingeckoURL overrides the CoinGecko API base URL, empty for public.
	CoingeckoURL string
}

type configYaml struct {
	Platform       string `yaml:"platform,omitempty"`
	ListenAddr     string `yaml:"listen_addr,omitempty"`
	DataDir        string `yaml:"data_dir,omitempty"`
	BenchmarkAsset string `yaml:"benchmark_asset,omitempty"`
	PriceCacheTTL  string `yaml:"price_cache_ttl,omitempty"`
	CoingeckoURL   string `yaml:"coingecko_url,omitempty"`
}

// Get loads configuration from the --config YAML file when provided,
// otherwise from CLI flags.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", PlatformCoingecko, "price source: coingecko, binance or bybit")
	listenAddr := flag.String("listen", ":8080", "dashboard listen address")
	dataDir := flag.String("datadir", "./data", "data directory for WAL storage and users")
	benchmark := flag.String("benchmark", "bitcoin", "benchmark asset id")
	cacheTTL := flag.Duration("pricecachettl", 60*time.Second, "price cache freshness window")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		Platform:       *platform,
		ListenAddr:     *listenAddr,
		DataDir:        *dataDir,
		BenchmarkAsset: *benchmark,
		PriceCacheTTL:  *cacheTTL,
	}
	return cfg, cfg.validate()
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var raw configYaml
	if err := yaml.Unmarshal(f, &raw); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}

	cfg := Config{
		Platform:       raw.Platform,
		ListenAddr:     raw.ListenAddr,
		DataDir:        raw.DataDir,
		BenchmarkAsset: raw.BenchmarkAsset,
		CoingeckoURL:   raw.CoingeckoURL,
	}
	if raw.PriceCacheTTL != "" {
		ttl, err := time.ParseDuration(raw.PriceCacheTTL)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'price_cache_ttl' param in yaml config: %w", err)
		}
		cfg.PriceCacheTTL = ttl
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformCoingecko
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.BenchmarkAsset == "" {
		c.BenchmarkAsset = "bitcoin"
	}
	if c.PriceCacheTTL <= 0 {
		c.PriceCacheTTL = 60 * time.Second
	}
}

func (c Config) validate() error {
	switch c.Platform {
	case PlatformCoingecko, PlatformBinance, PlatformBybit:
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}

	if _, ok := domain.AssetByID(c.BenchmarkAsset); !ok {
		return fmt.Errorf("unsupported benchmark asset %q", c.BenchmarkAsset)
	}

	return nil
}

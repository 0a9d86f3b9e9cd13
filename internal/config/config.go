// SPDX-License-Identifier: MIT

// Package config loads generator configuration with precedence
// ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mediaforge/rakugen/internal/rakuten"
)

// Config holds everything a generator run needs. Markets is threaded through
// explicitly; there is no process-global market state.
type Config struct {
	// DataDir is where artifacts are written.
	DataDir string `yaml:"data_dir"`
	// Markets lists market codes to process, always kept sorted.
	Markets []string `yaml:"markets"`
	// GuideURL is the upstream XMLTV feed template; "{market}" is replaced
	// with the market code. Empty disables programme collection.
	GuideURL string `yaml:"guide_url"`
	// PublicURL is the base under which artifacts are later served; it feeds
	// the playlist's url-tvg pointer. Empty falls back to the bare file name.
	PublicURL string `yaml:"public_url"`

	// GuideHorizon bounds programmes in the XMLTV artifact.
	GuideHorizon time.Duration `yaml:"guide_horizon"`
	// RecordHorizon bounds programmes embedded in the JSON artifact.
	RecordHorizon time.Duration `yaml:"record_horizon"`

	// FetchTimeout bounds every upstream request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// StreamConcurrency bounds parallel stream resolutions per market.
	StreamConcurrency int `yaml:"stream_concurrency"`
	// StreamRPS rate-limits stream resolution calls; 0 disables.
	StreamRPS float64 `yaml:"stream_rps"`

	LogLevel      string `yaml:"log_level"`
	MetricsListen string `yaml:"metrics_listen"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		DataDir:           "dist",
		Markets:           rakuten.Markets(),
		GuideHorizon:      24 * time.Hour,
		RecordHorizon:     12 * time.Hour,
		FetchTimeout:      10 * time.Second,
		StreamConcurrency: 5,
		StreamRPS:         8,
		LogLevel:          "info",
	}
}

// Load builds the effective configuration. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	seen := map[string]struct{}{}
	markets := make([]string, 0, len(c.Markets))
	for _, cc := range c.Markets {
		cc = strings.ToLower(strings.TrimSpace(cc))
		if cc == "" {
			continue
		}
		if !rakuten.ValidMarket(cc) {
			return fmt.Errorf("unknown market code %q", cc)
		}
		if _, dup := seen[cc]; dup {
			continue
		}
		seen[cc] = struct{}{}
		markets = append(markets, cc)
	}
	if len(markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	// Sorted order keeps the last-source-wins aggregation deterministic.
	sort.Strings(markets)
	c.Markets = markets

	if c.GuideHorizon <= 0 {
		return fmt.Errorf("guide_horizon must be positive")
	}
	if c.RecordHorizon <= 0 {
		return fmt.Errorf("record_horizon must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.StreamConcurrency < 1 {
		c.StreamConcurrency = 1
	}
	if c.StreamConcurrency > 10 {
		c.StreamConcurrency = 10
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	return nil
}

// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mediaforge/rakugen/internal/log"
)

// Environment variable names. ENV always beats the file value.
const (
	envDataDir           = "RKG_DATA"
	envMarkets           = "RKG_MARKETS"
	envGuideURL          = "RKG_GUIDE_URL"
	envPublicURL         = "RKG_PUBLIC_URL"
	envGuideHorizon      = "RKG_GUIDE_HORIZON"
	envRecordHorizon     = "RKG_RECORD_HORIZON"
	envFetchTimeout      = "RKG_FETCH_TIMEOUT"
	envStreamConcurrency = "RKG_STREAM_CONCURRENCY"
	envStreamRPS         = "RKG_STREAM_RPS"
	envLogLevel          = "RKG_LOG_LEVEL"
	envMetricsListen     = "RKG_METRICS_LISTEN"
)

func applyEnv(cfg *Config) {
	cfg.DataDir = parseString(envDataDir, cfg.DataDir)
	cfg.GuideURL = parseString(envGuideURL, cfg.GuideURL)
	cfg.PublicURL = parseString(envPublicURL, cfg.PublicURL)
	cfg.LogLevel = parseString(envLogLevel, cfg.LogLevel)
	cfg.MetricsListen = parseString(envMetricsListen, cfg.MetricsListen)

	if raw := parseString(envMarkets, ""); raw != "" {
		cfg.Markets = splitList(raw)
	}

	cfg.GuideHorizon = parseDuration(envGuideHorizon, cfg.GuideHorizon)
	cfg.RecordHorizon = parseDuration(envRecordHorizon, cfg.RecordHorizon)
	cfg.FetchTimeout = parseDuration(envFetchTimeout, cfg.FetchTimeout)
	cfg.StreamConcurrency = parseInt(envStreamConcurrency, cfg.StreamConcurrency)
	cfg.StreamRPS = parseFloat(envStreamRPS, cfg.StreamRPS)
}

// splitList parses a comma-separated market list, e.g. "it,es,fr".
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseString(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.WithComponent("config").Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	return i
}

func parseFloat(key string, defaultValue float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.WithComponent("config").Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
		return defaultValue
	}
	return f
}

func parseDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithComponent("config").Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	return d
}

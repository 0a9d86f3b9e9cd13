// SPDX-License-Identifier: MIT

// Command rakugen is a one-shot generator: it ingests the Rakuten TV live
// channel catalog plus an external XMLTV guide feed and emits M3U, XMLTV and
// JSON artifacts per market, a combined superset and an index document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediaforge/rakugen/internal/config"
	"github.com/mediaforge/rakugen/internal/jobs"
	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/rakuten"
	"github.com/mediaforge/rakugen/internal/xmltv"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	dataDir := flag.String("data", "", "output directory (overrides config)")
	markets := flag.String("markets", "", "comma-separated market codes (overrides config)")
	guideURL := flag.String("guide-url", "", "XMLTV guide feed URL template (overrides config)")
	metricsListen := flag.String("metrics-listen", "", "expose /metrics on this address for the duration of the run")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rakugen %s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	}

	log.Configure(log.Config{Level: "info", Service: "rakugen", Version: version})
	logger := log.WithComponent("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error().Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
		return 1
	}

	// Flags beat both environment and file.
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *guideURL != "" {
		cfg.GuideURL = *guideURL
	}
	if *markets != "" {
		list, err := parseMarkets(*markets)
		if err != nil {
			logger.Error().Err(err).
				Str("event", "config.invalid_flag").
				Str("flag", "markets").
				Msg("invalid market list")
			return 1
		}
		cfg.Markets = list
	}
	if *metricsListen != "" {
		cfg.MetricsListen = *metricsListen
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Service: "rakugen", Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsListen != "" {
		go serveMetrics(cfg.MetricsListen)
	}

	deps := jobs.Deps{
		Config: cfg,
		Client: rakuten.New(
			rakuten.WithTimeout(cfg.FetchTimeout),
			rakuten.WithRateLimit(cfg.StreamRPS, cfg.StreamConcurrency),
		),
		FetchGuide: func(ctx context.Context, url string) (*xmltv.TV, error) {
			return xmltv.Fetch(ctx, &http.Client{Timeout: cfg.FetchTimeout}, url)
		},
	}

	status, err := deps.Refresh(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Str("event", "run.canceled").Msg("run canceled")
			return 130
		}
		logger.Error().Err(err).Str("event", "run.failed").Msg("run failed")
		return 1
	}

	logger.Info().
		Str("event", "run.success").
		Strs("markets", status.Markets).
		Int("channels", status.Channels).
		Int("programmes", status.Programmes).
		Msg("all artifacts generated")
	return 0
}

// parseMarkets normalizes a comma-separated market list the same way the
// config loader does: lowercased, deduplicated, sorted, every code known.
func parseMarkets(raw string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, cc := range strings.Split(raw, ",") {
		cc = strings.ToLower(strings.TrimSpace(cc))
		if cc == "" {
			continue
		}
		if !rakuten.ValidMarket(cc) {
			return nil, fmt.Errorf("unknown market code %q", cc)
		}
		if _, dup := seen[cc]; dup {
			continue
		}
		seen[cc] = struct{}{}
		out = append(out, cc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty market list")
	}
	sort.Strings(out)
	return out, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithComponent("metrics").Warn().Err(err).Msg("metrics listener stopped")
	}
}

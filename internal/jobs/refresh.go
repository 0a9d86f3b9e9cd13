// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mediaforge/rakugen/internal/epg"
	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/metrics"
	"github.com/mediaforge/rakugen/internal/playlist"
	"github.com/mediaforge/rakugen/internal/rakuten"
	"github.com/mediaforge/rakugen/internal/record"
	"github.com/mediaforge/rakugen/internal/xmltv"
)

func artifactName(market, ext string) string {
	return "rakuten_" + market + "." + ext
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// RefreshMarket runs the full pipeline for one market: fetch catalog,
// categories and guide behind a full barrier, normalize, resolve streams,
// filter the guide into the two output windows and emit the three artifacts.
//
// The catalog is the primary source: its failure aborts the market before
// any artifact is written. Categories and guide degrade to empty documents
// with a warning. Artifact write failures are reported per artifact; the
// remaining artifacts are still attempted.
func (d Deps) RefreshMarket(ctx context.Context, market string) (*MarketResult, error) {
	ctx = log.ContextWithMarket(ctx, market)
	logger := log.WithComponentFromContext(ctx, "jobs")
	started := d.now()
	defer func() {
		metrics.RunDuration.WithLabelValues(market).Observe(time.Since(started).Seconds())
	}()

	logger.Info().Str("event", "refresh.start").Msg("starting market refresh")

	// Fan out the independent source fetches. Normalization must not start
	// until all of them have completed or definitively failed.
	chDoc, catDoc, guideDoc, err := d.fetchSources(ctx, market)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("live_channels").Inc()
		return nil, fmt.Errorf("market %s: %w", market, err)
	}

	categories := epg.CategoryMap(catDoc)
	channels := epg.Normalize([]*rakuten.ChannelsDocument{chDoc}, categories)
	metrics.ChannelsEmitted.WithLabelValues(market).Set(float64(len(channels)))

	if len(channels) == 0 {
		logger.Warn().Str("event", "refresh.empty").Msg("zero channels after normalization")
	}

	channels = resolveStreams(ctx, d.Client, market, channels, d.Config.StreamConcurrency)

	// Two independent windows over the same parsed document, never filtered
	// off each other.
	now := d.now()
	var raw []epg.RawProgramme
	if guideDoc != nil {
		raw = guideDoc.RawProgrammes()
	}
	guideProgs := epg.FilterWindow(raw, now, d.Config.GuideHorizon)
	recordProgs := epg.FilterWindow(raw, now, d.Config.RecordHorizon)
	metrics.ProgrammesKept.WithLabelValues(market, "guide").Set(float64(len(guideProgs)))
	metrics.ProgrammesKept.WithLabelValues(market, "record").Set(float64(len(recordProgs)))

	res := &MarketResult{
		Market:     market,
		Channels:   channels,
		GuideProgs: guideProgs,
		Playlist:   filepath.Join(d.Config.DataDir, artifactName(market, "m3u")),
		Guide:      filepath.Join(d.Config.DataDir, artifactName(market, "xml")),
		Records:    filepath.Join(d.Config.DataDir, artifactName(market, "json")),
	}

	if err := os.MkdirAll(d.Config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// The emitters share one immutable snapshot and have no data dependency
	// on each other, so they run concurrently. A failing emitter is recorded
	// and does not stop the others.
	items := playlist.ItemsFromChannels(channels)
	records := record.Build(channels, recordProgs)
	tv := xmltv.Generate(channels, guideProgs)
	tvgURL := d.guidePointer(market)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	fail := func(artifact string, err error) {
		mu.Lock()
		res.WriteErrs = append(res.WriteErrs, fmt.Sprintf("%s: %v", artifact, err))
		mu.Unlock()
		logger.Error().Err(err).
			Str("event", "artifact.write_failed").
			Str("artifact", artifact).
			Msg("artifact write failed")
	}
	g.Go(func() error {
		if err := writeArtifact(ctx, res.Playlist, "playlist", func(w io.Writer) error {
			return playlist.WriteM3U(w, items, tvgURL)
		}); err != nil {
			fail("playlist", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := writeArtifact(ctx, res.Guide, "guide", func(w io.Writer) error {
			return xmltv.Write(w, tv)
		}); err != nil {
			fail("guide", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := writeArtifact(ctx, res.Records, "records", func(w io.Writer) error {
			return record.Write(w, records)
		}); err != nil {
			fail("records", err)
		}
		return nil
	})
	_ = g.Wait()

	logger.Info().
		Str("event", "refresh.success").
		Int("channels", len(channels)).
		Int("playable", len(items)).
		Int("programmes_guide", len(guideProgs)).
		Int("programmes_record", len(recordProgs)).
		Msg("market refresh completed")
	return res, nil
}

// fetchSources performs the bounded fan-out of the three upstream fetches
// and joins them before returning (full barrier). Only the catalog error is
// fatal; it also cancels the sibling fetches.
func (d Deps) fetchSources(ctx context.Context, market string) (*rakuten.ChannelsDocument, *rakuten.CategoriesDocument, *xmltv.TV, error) {
	logger := log.WithComponentFromContext(ctx, "jobs")

	var (
		chDoc    *rakuten.ChannelsDocument
		catDoc   *rakuten.CategoriesDocument
		guideDoc *xmltv.TV
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := d.Client.LiveChannels(gctx, market)
		if err != nil {
			return fmt.Errorf("live_channels: %w", err)
		}
		chDoc = doc
		return nil
	})
	g.Go(func() error {
		doc, err := d.Client.LiveChannelCategories(gctx, market)
		if err != nil {
			metrics.FetchFailures.WithLabelValues("live_channel_categories").Inc()
			logger.Warn().Err(err).
				Str("event", "fetch.degraded").
				Str("source", "live_channel_categories").
				Msg("category fetch failed, channels keep the category sentinel")
			return nil
		}
		catDoc = doc
		return nil
	})
	g.Go(func() error {
		url := d.guideURL(market)
		if url == "" || d.FetchGuide == nil {
			return nil
		}
		doc, err := d.FetchGuide(gctx, url)
		if err != nil {
			metrics.FetchFailures.WithLabelValues("guide").Inc()
			logger.Warn().Err(err).
				Str("event", "fetch.degraded").
				Str("source", "guide").
				Msg("guide fetch failed, emitting zero programmes")
			return nil
		}
		guideDoc = doc
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return chDoc, catDoc, guideDoc, nil
}

func (d Deps) guideURL(market string) string {
	return strings.ReplaceAll(d.Config.GuideURL, "{market}", market)
}

// guidePointer is the location players should find the guide artifact at.
func (d Deps) guidePointer(market string) string {
	name := artifactName(market, "xml")
	if d.Config.PublicURL != "" {
		return d.Config.PublicURL + "/" + name
	}
	return name
}

// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mediaforge/rakugen/internal/epg"
	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/playlist"
	"github.com/mediaforge/rakugen/internal/xmltv"
)

// Refresh runs every configured market and then combines the per-market
// outputs into the rakuten_all.* superset artifacts plus the index document.
//
// Markets are processed in the configured (sorted) order; that order is the
// aggregation's explicit last-wins priority. A market whose primary catalog
// fails is skipped with an error logged; the run only fails as a whole when
// no market succeeds.
func (d Deps) Refresh(ctx context.Context) (*Status, error) {
	logger := log.WithComponentFromContext(ctx, "jobs")

	status := &Status{LastRun: d.now()}
	var results []*MarketResult

	for _, market := range d.Config.Markets {
		res, err := d.RefreshMarket(ctx, market)
		if err != nil {
			status.FailedMarkets = append(status.FailedMarkets, market)
			logger.Error().Err(err).
				Str("event", "refresh.market_failed").
				Str("market", market).
				Msg("market refresh failed")
			if ctx.Err() != nil {
				return status, ctx.Err()
			}
			continue
		}
		results = append(results, res)
		status.Markets = append(status.Markets, market)
		status.Channels += len(res.Channels)
		status.Programmes += len(res.GuideProgs)
	}

	if len(results) == 0 {
		err := fmt.Errorf("all %d markets failed", len(d.Config.Markets))
		status.Error = err.Error()
		return status, err
	}

	if len(results) > 1 || len(d.Config.Markets) > 1 {
		if err := d.combine(ctx, results); err != nil {
			logger.Error().Err(err).
				Str("event", "refresh.combine_failed").
				Msg("combined artifact generation failed")
		}
	}

	if err := d.writeIndex(ctx, results); err != nil {
		logger.Error().Err(err).
			Str("event", "refresh.index_failed").
			Msg("index artifact generation failed")
	}

	logger.Info().
		Str("event", "refresh.run_complete").
		Int("markets", len(status.Markets)).
		Int("failed", len(status.FailedMarkets)).
		Int("channels", status.Channels).
		Msg("run completed")
	return status, nil
}

// combine merges the per-market results into the rakuten_all.* artifacts.
func (d Deps) combine(ctx context.Context, results []*MarketResult) error {
	sets := make([]map[string]epg.Channel, 0, len(results))
	for _, r := range results {
		sets = append(sets, r.Channels)
	}
	merged := epg.MergeChannelSets(sets...)

	// Programmes concatenate across markets; a channel present in several
	// markets would repeat its schedule, so duplicates (same channel and
	// start) are skipped.
	type progKey struct {
		channel string
		start   string
	}
	seen := map[progKey]struct{}{}
	var progs []epg.Programme
	for _, r := range results {
		for _, p := range r.GuideProgs {
			k := progKey{channel: p.ChannelID, start: epg.FormatXMLTVTime(p.Start)}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			progs = append(progs, p)
		}
	}

	playlistPath := filepath.Join(d.Config.DataDir, artifactName("all", "m3u"))
	guidePath := filepath.Join(d.Config.DataDir, artifactName("all", "xml"))
	recordsPath := filepath.Join(d.Config.DataDir, artifactName("all", "json"))

	items := playlist.ItemsFromChannels(merged)
	if err := writeArtifact(ctx, playlistPath, "playlist_all", func(w io.Writer) error {
		return playlist.WriteM3U(w, items, d.guidePointer("all"))
	}); err != nil {
		return err
	}

	tv := xmltv.Generate(merged, progs)
	if err := writeArtifact(ctx, guidePath, "guide_all", func(w io.Writer) error {
		return xmltv.Write(w, tv)
	}); err != nil {
		return err
	}

	// The flat records merge deliberately re-reads the artifacts just
	// written: the combined document must reflect what was persisted, not
	// what was in memory, so a market whose records write failed drops out
	// here as well.
	lists := make([][]epg.Record, 0, len(results))
	for _, r := range results {
		recs, err := readRecords(r.Records)
		if err != nil {
			log.WithComponentFromContext(ctx, "jobs").Warn().Err(err).
				Str("market", r.Market).
				Str("path", r.Records).
				Msg("skipping unreadable records artifact in combine")
			continue
		}
		lists = append(lists, recs)
	}
	mergedRecs := epg.MergeRecords(lists...)
	return writeArtifact(ctx, recordsPath, "records_all", func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if mergedRecs == nil {
			mergedRecs = []epg.Record{}
		}
		return enc.Encode(mergedRecs)
	})
}

func readRecords(path string) ([]epg.Record, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path was produced by this run
	if err != nil {
		return nil, err
	}
	var recs []epg.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("parse records artifact %s: %w", path, err)
	}
	return recs, nil
}

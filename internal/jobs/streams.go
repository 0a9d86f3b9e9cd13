// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"sync"

	"github.com/mediaforge/rakugen/internal/epg"
	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/metrics"
	"github.com/mediaforge/rakugen/internal/rakuten"
)

type streamResult struct {
	channelID string
	url       string
}

// resolveStreams resolves a playable URL per channel with bounded
// concurrency and returns an updated channel set; the input set is not
// mutated. A channel whose resolution fails simply keeps no stream URL:
// per-channel call failures are expected steady-state.
func resolveStreams(ctx context.Context, client CatalogClient, market string, channels map[string]epg.Channel, maxPar int) map[string]epg.Channel {
	logger := log.WithComponentFromContext(ctx, "streams")

	if maxPar < 1 {
		maxPar = 1
	}
	sem := make(chan struct{}, maxPar)
	results := make(chan streamResult, len(channels))
	var wg sync.WaitGroup

	for _, ch := range channels {
		wg.Add(1)
		go func(ch epg.Channel) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := client.LiveStreaming(ctx, market, ch.ID, ch.Languages)
			if err != nil {
				metrics.StreamsResolved.WithLabelValues("error").Inc()
				logger.Debug().Err(err).
					Str("channel", ch.ID).
					Msg("stream resolution failed")
				return
			}
			url := rakuten.StreamURL(doc)
			if url == "" {
				metrics.StreamsResolved.WithLabelValues("empty").Inc()
				return
			}
			metrics.StreamsResolved.WithLabelValues("ok").Inc()
			results <- streamResult{channelID: ch.ID, url: url}
		}(ch)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]epg.Channel, len(channels))
	for id, ch := range channels {
		out[id] = ch
	}
	resolved := 0
	for res := range results {
		ch := out[res.channelID]
		ch.StreamURL = res.url
		out[res.channelID] = ch
		resolved++
	}

	logger.Info().
		Str("event", "streams.resolved").
		Int("channels", len(channels)).
		Int("resolved", resolved).
		Int("concurrency", maxPar).
		Msg("stream resolution completed")
	return out
}

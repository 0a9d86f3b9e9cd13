// SPDX-License-Identifier: MIT

// Package jobs orchestrates one generator run: fetch, normalize, filter,
// emit.
package jobs

import (
	"context"
	"time"

	"github.com/mediaforge/rakugen/internal/config"
	"github.com/mediaforge/rakugen/internal/epg"
	"github.com/mediaforge/rakugen/internal/rakuten"
	"github.com/mediaforge/rakugen/internal/xmltv"
)

// CatalogClient is the upstream catalog surface the pipeline consumes.
// *rakuten.Client satisfies it; tests substitute fakes.
type CatalogClient interface {
	LiveChannels(ctx context.Context, market string) (*rakuten.ChannelsDocument, error)
	LiveChannelCategories(ctx context.Context, market string) (*rakuten.CategoriesDocument, error)
	LiveStreaming(ctx context.Context, market, channelID string, languages []string) (*rakuten.StreamingsDocument, error)
}

// GuideFetcher fetches and parses the external guide feed.
type GuideFetcher func(ctx context.Context, url string) (*xmltv.TV, error)

// Deps holds the pipeline's collaborators.
type Deps struct {
	Config     config.Config
	Client     CatalogClient
	FetchGuide GuideFetcher
	Clock      func() time.Time // defaults to time.Now
}

// MarketResult is the in-memory outcome of one market run, consumed by the
// cross-market aggregation step.
type MarketResult struct {
	Market     string
	Channels   map[string]epg.Channel
	GuideProgs []epg.Programme
	Playlist   string // artifact paths as written
	Guide      string
	Records    string
	WriteErrs  []string
}

// Status summarizes a full run for reporting.
type Status struct {
	LastRun       time.Time `json:"last_run"`
	Markets       []string  `json:"markets"`
	FailedMarkets []string  `json:"failed_markets,omitempty"`
	Channels      int       `json:"channels"`
	Programmes    int       `json:"programmes"`
	Error         string    `json:"error,omitempty"`
}

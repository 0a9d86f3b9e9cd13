// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"time"
)

// MarketArtifacts names the artifacts produced for one market.
type MarketArtifacts struct {
	Playlist string `json:"playlist"`
	Guide    string `json:"guide"`
	Records  string `json:"records"`
}

// Index is the companion metadata document other tooling consumes to locate
// the produced artifacts. Pure metadata, no filtering logic.
type Index struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Combined    *MarketArtifacts           `json:"combined,omitempty"`
	Markets     map[string]MarketArtifacts `json:"markets"`
}

func (d Deps) writeIndex(ctx context.Context, results []*MarketResult) error {
	idx := Index{
		GeneratedAt: d.now().UTC(),
		Markets:     map[string]MarketArtifacts{},
	}
	for _, r := range results {
		idx.Markets[r.Market] = MarketArtifacts{
			Playlist: r.Playlist,
			Guide:    r.Guide,
			Records:  r.Records,
		}
	}
	if len(d.Config.Markets) > 1 {
		idx.Combined = &MarketArtifacts{
			Playlist: filepath.Join(d.Config.DataDir, artifactName("all", "m3u")),
			Guide:    filepath.Join(d.Config.DataDir, artifactName("all", "xml")),
			Records:  filepath.Join(d.Config.DataDir, artifactName("all", "json")),
		}
	}

	path := filepath.Join(d.Config.DataDir, "index.json")
	return writeArtifact(ctx, path, "index", func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(idx)
	})
}

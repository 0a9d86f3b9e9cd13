// SPDX-License-Identifier: MIT

package epg

import (
	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/metrics"
	"github.com/mediaforge/rakugen/internal/rakuten"
)

// CategoryMap builds a channel_id → group label lookup from a category
// document. A nil or empty document yields an empty map, which leaves every
// channel at the NoCategory sentinel.
func CategoryMap(doc *rakuten.CategoriesDocument) map[string]string {
	out := map[string]string{}
	if doc == nil {
		return out
	}
	for _, cat := range doc.Data {
		name := cat.Name
		if name == "" {
			name = NoCategory
		}
		for _, id := range cat.LiveChannels {
			if id == "" {
				continue
			}
			out[id] = name
		}
	}
	return out
}

// Normalize folds one or more catalog documents into a canonical channel set
// keyed by id. The first document to mention an id establishes the channel;
// later documents apply field-level fill-missing semantics and never drop an
// id seen earlier. A record with no id is skipped and counted. A nil or empty
// document contributes nothing; zero channels is a valid result.
func Normalize(docs []*rakuten.ChannelsDocument, categories map[string]string) map[string]Channel {
	logger := log.WithComponent("normalize")
	out := map[string]Channel{}
	skipped := 0

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, st := range doc.Data {
			if st.ID == "" {
				skipped++
				logger.Warn().
					Str("event", "normalize.skip").
					Str("title", st.Title).
					Msg("station record has no id")
				continue
			}

			ch := channelFromStation(st, categories)
			if prev, ok := out[st.ID]; ok {
				out[st.ID] = prev.merge(ch)
			} else {
				out[st.ID] = ch
			}
		}
	}

	if skipped > 0 {
		metrics.RecordsDropped.WithLabelValues("missing_id").Add(float64(skipped))
		logger.Warn().
			Str("event", "normalize.dropped").
			Int("count", skipped).
			Msg("station records dropped for missing id")
	}
	return out
}

func channelFromStation(st rakuten.Station, categories map[string]string) Channel {
	ch := Channel{
		ID:          st.ID,
		NumericalID: NoNumericalID,
		Title:       NoTitle,
		Kind:        NoType,
		Ordinal:     NoOrdinal,
		Group:       NoCategory,
		Languages:   languagesOf(st),
	}
	if st.NumericalID != nil {
		ch.NumericalID = *st.NumericalID
	}
	if st.Title != "" {
		ch.Title = st.Title
	}
	if st.Type != "" {
		ch.Kind = st.Type
	}
	if st.ChannelNumber != nil {
		ch.Ordinal = *st.ChannelNumber
	}
	if g, ok := categories[st.ID]; ok && g != "" {
		ch.Group = g
	}
	if st.Images != nil {
		ch.Logo = st.Images.Artwork
	}
	return ch
}

// languagesOf extracts the ordered language ids from the nested labels
// structure. Missing or malformed nesting yields an empty slice, never a
// fault; upstream order is preserved.
func languagesOf(st rakuten.Station) []string {
	if st.Labels == nil {
		return nil
	}
	var out []string
	for _, l := range st.Labels.Languages {
		if l.ID != "" {
			out = append(out, l.ID)
		}
	}
	return out
}

// SPDX-License-Identifier: MIT

// Package epg holds the canonical channel/programme model and the
// normalization, window-filtering and aggregation logic that turns raw
// upstream catalog documents into the snapshot the emitters consume.
package epg

// Sentinel values substituted when an upstream field is absent. They are
// documented placeholders, distinct from a genuine null: downstream formats
// render them verbatim.
const (
	NoNumericalID = -1
	NoOrdinal     = -1
	NoTitle       = "no_title"
	NoType        = "no_type"
	NoCategory    = "no_category"
)

// Channel is the canonical identity of a broadcast channel. ID is the only
// key used for deduplication and cross-referencing.
type Channel struct {
	ID          string   `json:"id"`
	NumericalID int      `json:"numerical_id"`
	Title       string   `json:"title"`
	Kind        string   `json:"type"`
	Ordinal     int      `json:"channel_number"`
	Group       string   `json:"category"`
	Languages   []string `json:"language_ids"`

	// Logo and StreamURL are resolved by later stages; empty means "not yet
	// resolved" and suppresses emission in format-specific contexts. They are
	// never rendered as a placeholder string.
	Logo      string `json:"logo,omitempty"`
	StreamURL string `json:"stream_url,omitempty"`
}

// merge applies field-level "fill missing / overwrite sentinel" semantics:
// a non-sentinel field in next overwrites a sentinel or absent field in c,
// never vice versa.
func (c Channel) merge(next Channel) Channel {
	if next.NumericalID != NoNumericalID {
		c.NumericalID = next.NumericalID
	}
	if next.Title != "" && next.Title != NoTitle {
		c.Title = next.Title
	}
	if next.Kind != "" && next.Kind != NoType {
		c.Kind = next.Kind
	}
	if next.Ordinal != NoOrdinal {
		c.Ordinal = next.Ordinal
	}
	if next.Group != "" && next.Group != NoCategory {
		c.Group = next.Group
	}
	if len(next.Languages) > 0 {
		c.Languages = next.Languages
	}
	if next.Logo != "" {
		c.Logo = next.Logo
	}
	if next.StreamURL != "" {
		c.StreamURL = next.StreamURL
	}
	return c
}

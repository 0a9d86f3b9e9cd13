// SPDX-License-Identifier: MIT

// Package record writes the flat JSON channel records artifact.
package record

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/mediaforge/rakugen/internal/epg"
)

// ProgramEntry is one embedded near-term programme, reduced to the fields
// downstream tooling consumes.
type ProgramEntry struct {
	Start       string `json:"start"`
	Stop        string `json:"stop"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// ChannelRecord is one flat self-contained record per channel. Programs is
// always present, empty when nothing matched.
type ChannelRecord struct {
	epg.Channel
	Programs []ProgramEntry `json:"programs"`
}

// Build projects the normalized snapshot into flat records, sorted by ordinal
// ascending (id as tiebreaker). Programmes are joined by channel id; a
// programme referencing an unknown channel is simply not joined.
func Build(channels map[string]epg.Channel, programmes []epg.Programme) []ChannelRecord {
	byChannel := epg.ByChannel(programmes)

	out := make([]ChannelRecord, 0, len(channels))
	for _, ch := range channels {
		rec := ChannelRecord{Channel: ch, Programs: []ProgramEntry{}}
		if rec.Languages == nil {
			rec.Languages = []string{}
		}
		for _, p := range byChannel[ch.ID] {
			rec.Programs = append(rec.Programs, ProgramEntry{
				Start:       epg.FormatXMLTVTime(p.Start),
				Stop:        epg.FormatXMLTVTime(p.Stop),
				Title:       p.Title,
				Description: p.Description,
			})
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordinal != out[j].Ordinal {
			return out[i].Ordinal < out[j].Ordinal
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Write renders records as a pretty-printed UTF-8 JSON array. An empty set
// still produces a valid (empty) array.
func Write(w io.Writer, records []ChannelRecord) error {
	if records == nil {
		records = []ChannelRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

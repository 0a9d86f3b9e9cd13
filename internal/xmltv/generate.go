// SPDX-License-Identifier: MIT

package xmltv

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/mediaforge/rakugen/internal/epg"
)

const generatorName = "rakugen"

// Generate projects the normalized snapshot into an XMLTV document. Every
// channel gets a declaration regardless of stream availability, exactly one
// per id even when merged sources repeated it; programme elements follow in
// the filter's per-channel order. Timestamps are written in the same tolerant
// layout the filter parses, so the document round-trips.
func Generate(channels map[string]epg.Channel, programmes []epg.Programme) *TV {
	tv := &TV{Generator: generatorName}

	ids := make([]string, 0, len(channels))
	for id := range channels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := channels[ids[i]], channels[ids[j]]
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		ch := channels[id]
		decl := Channel{ID: ch.ID, DisplayName: []string{ch.Title}}
		if ch.Logo != "" {
			decl.Icon = &Icon{Src: ch.Logo}
		}
		tv.Channels = append(tv.Channels, decl)
	}

	for _, p := range programmes {
		tv.Programs = append(tv.Programs, Programme{
			Start:   epg.FormatXMLTVTime(p.Start),
			Stop:    epg.FormatXMLTVTime(p.Stop),
			Channel: p.ChannelID,
			Title:   p.Title,
			Desc:    p.Description,
		})
	}
	return tv
}

// Write renders tv as pretty-printed UTF-8 XML with an XML declaration and
// stable 2-space indentation.
func Write(w io.Writer, tv *TV) error {
	out, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

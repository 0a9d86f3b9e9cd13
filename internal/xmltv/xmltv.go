// SPDX-License-Identifier: MIT

// Package xmltv reads and writes XMLTV guide documents.
package xmltv

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/mediaforge/rakugen/internal/epg"
)

// TV is the root element of an XMLTV document.
type TV struct {
	XMLName   xml.Name    `xml:"tv"`
	Generator string      `xml:"generator-info-name,attr,omitempty"`
	Channels  []Channel   `xml:"channel"`
	Programs  []Programme `xml:"programme"`
}

// Channel is one channel declaration.
type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
	Icon        *Icon    `xml:"icon,omitempty"`
}

// Icon is an optional logo reference.
type Icon struct {
	Src string `xml:"src,attr"`
}

// Programme is one programme declaration.
type Programme struct {
	Start   string `xml:"start,attr"`
	Stop    string `xml:"stop,attr"`
	Channel string `xml:"channel,attr"`
	Title   string `xml:"title,omitempty"`
	Desc    string `xml:"desc,omitempty"`
}

// 50MB guards the decoder against runaway guide feeds.
const maxXMLSize = 50 * 1024 * 1024

// Parse decodes an XMLTV document from r with strict parsing, disabled
// entity expansion and a bounded reader.
func Parse(r io.Reader) (*TV, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxXMLSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)

	// Decode returns io.EOF when the stream holds no tv element at all;
	// that is a malformed guide, not an empty one.
	var doc TV
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}

// RawProgrammes projects the parsed document into filterable raw entries,
// timestamps left textual for the window filter's tolerant parser.
func (tv *TV) RawProgrammes() []epg.RawProgramme {
	if tv == nil {
		return nil
	}
	out := make([]epg.RawProgramme, 0, len(tv.Programs))
	for _, p := range tv.Programs {
		out = append(out, epg.RawProgramme{
			ChannelID:   p.Channel,
			Start:       p.Start,
			Stop:        p.Stop,
			Title:       p.Title,
			Description: p.Desc,
		})
	}
	return out
}

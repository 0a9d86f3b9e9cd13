// SPDX-License-Identifier: MIT

// Package playlist writes M3U playlists from the normalized channel set.
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mediaforge/rakugen/internal/epg"
)

// Item is one playlist entry.
type Item struct {
	Name    string
	TvgID   string
	TvgChNo int
	TvgLogo string
	Group   string
	URL     string
}

// ItemsFromChannels selects the playable channels, sorted by ordinal
// ascending (id as tiebreaker). A channel with no resolved stream URL is
// silently omitted: "exists but has no playable stream right now" is an
// expected steady-state condition, not an error.
func ItemsFromChannels(channels map[string]epg.Channel) []Item {
	chs := make([]epg.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.StreamURL == "" {
			continue
		}
		chs = append(chs, ch)
	}
	sort.Slice(chs, func(i, j int) bool {
		if chs[i].Ordinal != chs[j].Ordinal {
			return chs[i].Ordinal < chs[j].Ordinal
		}
		return chs[i].ID < chs[j].ID
	})

	items := make([]Item, 0, len(chs))
	for _, ch := range chs {
		items = append(items, Item{
			Name:    ch.Title,
			TvgID:   ch.ID,
			TvgChNo: ch.Ordinal,
			TvgLogo: ch.Logo,
			Group:   ch.Group,
			URL:     ch.StreamURL,
		})
	}
	return items
}

// WriteM3U writes the playlist. A non-empty tvgURL is embedded in the header
// so players can self-discover the guide document.
func WriteM3U(w io.Writer, items []Item, tvgURL string) error {
	buf := &bytes.Buffer{}
	if tvgURL != "" {
		fmt.Fprintf(buf, "#EXTM3U url-tvg=%q\n", tvgURL)
	} else {
		buf.WriteString("#EXTM3U\n")
	}
	for _, it := range items {
		fmt.Fprintf(buf,
			`#EXTINF:-1 tvg-chno="%d" tvg-id="%s" tvg-logo="%s" group-title="%s",%s`+"\n",
			it.TvgChNo, sanitizeAttr(it.TvgID), sanitizeAttr(it.TvgLogo), sanitizeAttr(it.Group), it.Name,
		)
		buf.WriteString(it.URL + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}

// sanitizeAttr keeps attribute values on one line and unquoted: the M3U
// attribute syntax has no escape mechanism.
func sanitizeAttr(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

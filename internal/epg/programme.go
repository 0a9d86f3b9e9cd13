// SPDX-License-Identifier: MIT

package epg

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mediaforge/rakugen/internal/metrics"
)

// Programme is a single scheduled broadcast instance. ChannelID is a weak
// reference: it may name a channel absent from the current channel set.
type Programme struct {
	ChannelID   string
	Start       time.Time
	Stop        time.Time
	Title       string
	Description string
}

// XMLTV timestamp layouts. The offset-bearing form is primary; an
// offset-less timestamp is interpreted as UTC. That UTC assumption matches
// observed feed behavior but is not a guaranteed upstream contract.
const (
	timeLayout       = "20060102150405 -0700"
	timeLayoutNoZone = "20060102150405"
)

// ParseXMLTVTime parses a tolerant XMLTV timestamp.
func ParseXMLTVTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(timeLayoutNoZone, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// FormatXMLTVTime renders t in the offset-bearing layout. Output re-parses
// through ParseXMLTVTime to an equal instant.
func FormatXMLTVTime(t time.Time) string {
	return t.Format(timeLayout)
}

// RawProgramme is one unvalidated programme entry as decoded from the guide
// feed, timestamps still textual.
type RawProgramme struct {
	ChannelID   string
	Start       string
	Stop        string
	Title       string
	Description string
}

// FilterWindow reduces raw programme entries to the valid ones whose live
// interval intersects [now, now+horizon). It is a pure function of its
// arguments and may be invoked repeatedly with different horizons over the
// same parsed document.
//
// A record is kept iff stop > now and start < now+horizon: partially-elapsed
// "currently live" programmes are included, programmes starting at or after
// the horizon boundary are not. Records with missing or unparseable
// timestamps, or stop <= start, are dropped and counted, never an error.
//
// Output is ordered per channel by start ascending, stable for equal starts;
// across channels the relative input order of each channel's first entry is
// preserved.
func FilterWindow(raw []RawProgramme, now time.Time, horizon time.Duration) []Programme {
	boundary := now.Add(horizon)
	dropped := 0

	out := make([]Programme, 0, len(raw))
	for _, r := range raw {
		if r.ChannelID == "" || r.Start == "" || r.Stop == "" {
			dropped++
			continue
		}
		start, err := ParseXMLTVTime(r.Start)
		if err != nil {
			dropped++
			continue
		}
		stop, err := ParseXMLTVTime(r.Stop)
		if err != nil {
			dropped++
			continue
		}
		if !stop.After(start) {
			dropped++
			continue
		}
		if !stop.After(now) || !start.Before(boundary) {
			continue
		}
		out = append(out, Programme{
			ChannelID:   r.ChannelID,
			Start:       start,
			Stop:        stop,
			Title:       r.Title,
			Description: r.Description,
		})
	}

	if dropped > 0 {
		metrics.RecordsDropped.WithLabelValues("invalid_programme").Add(float64(dropped))
	}

	sortPerChannel(out)
	return out
}

// sortPerChannel orders programmes by start ascending within each channel
// without imposing any cross-channel order beyond first appearance.
func sortPerChannel(ps []Programme) {
	rank := map[string]int{}
	for _, p := range ps {
		if _, ok := rank[p.ChannelID]; !ok {
			rank[p.ChannelID] = len(rank)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].ChannelID != ps[j].ChannelID {
			return rank[ps[i].ChannelID] < rank[ps[j].ChannelID]
		}
		return ps[i].Start.Before(ps[j].Start)
	})
}

// ByChannel groups programmes by channel id, preserving order within each
// channel.
func ByChannel(ps []Programme) map[string][]Programme {
	out := map[string][]Programme{}
	for _, p := range ps {
		out[p.ChannelID] = append(out[p.ChannelID], p)
	}
	return out
}

// SPDX-License-Identifier: MIT
package record

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mediaforge/rakugen/internal/epg"
)

func TestBuildJoinsProgrammesByChannel(t *testing.T) {
	channels := map[string]epg.Channel{
		"a": {ID: "a", Title: "Alpha", Ordinal: 2, Group: "Sport"},
		"b": {ID: "b", Title: "Bravo", Ordinal: 1, Group: "News"},
	}
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	progs := []epg.Programme{
		{ChannelID: "a", Start: start, Stop: start.Add(time.Hour), Title: "Match", Description: "Live"},
		{ChannelID: "ghost", Start: start, Stop: start.Add(time.Hour), Title: "Unjoined"},
	}

	got := Build(channels, progs)

	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	// Ordinal sort: bravo first.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("record order = %s, %s", got[0].ID, got[1].ID)
	}
	// No matching programmes: empty list, not absent.
	if got[0].Programs == nil || len(got[0].Programs) != 0 {
		t.Errorf("channel without programmes should carry an empty list, got %v", got[0].Programs)
	}
	if len(got[1].Programs) != 1 {
		t.Fatalf("channel a programmes = %d, want 1", len(got[1].Programs))
	}
	p := got[1].Programs[0]
	if p.Start != "20250101090000 +0000" || p.Title != "Match" || p.Description != "Live" {
		t.Errorf("programme entry = %+v", p)
	}
}

func TestWriteShape(t *testing.T) {
	channels := map[string]epg.Channel{
		"a": {ID: "a", NumericalID: 5, Title: "Alpha", Kind: "live", Ordinal: 1, Group: "Sport"},
	}

	var b strings.Builder
	if err := Write(&b, Build(channels, nil)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("records = %d", len(decoded))
	}
	rec := decoded[0]
	for _, key := range []string{"id", "numerical_id", "title", "type", "channel_number", "category", "language_ids", "programs"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("record missing %q: %v", key, rec)
		}
	}
	if progs, ok := rec["programs"].([]any); !ok || len(progs) != 0 {
		t.Errorf("programs should be an empty array, got %v", rec["programs"])
	}
}

func TestWriteEmptySet(t *testing.T) {
	var b strings.Builder
	if err := Write(&b, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.TrimSpace(b.String()) != "[]" {
		t.Errorf("empty set should render as [], got %q", b.String())
	}
}

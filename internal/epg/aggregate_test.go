// SPDX-License-Identifier: MIT
package epg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeChannelSetsDeduplicates(t *testing.T) {
	a := map[string]Channel{
		"one": {ID: "one", NumericalID: NoNumericalID, Title: "One IT", Kind: NoType, Ordinal: 1, Group: "Sport"},
		"two": {ID: "two", NumericalID: NoNumericalID, Title: NoTitle, Kind: NoType, Ordinal: NoOrdinal, Group: NoCategory},
	}
	b := map[string]Channel{
		"one":   {ID: "one", NumericalID: 11, Title: NoTitle, Kind: NoType, Ordinal: NoOrdinal, Group: NoCategory},
		"three": {ID: "three", NumericalID: NoNumericalID, Title: "Three", Kind: NoType, Ordinal: NoOrdinal, Group: NoCategory},
	}

	got := MergeChannelSets(a, b)

	if len(got) != 3 {
		t.Fatalf("expected exactly one entry per distinct id (3), got %d", len(got))
	}
	// Later set fills what the earlier left at sentinel, but its sentinels do
	// not clobber resolved fields.
	one := got["one"]
	if one.Title != "One IT" {
		t.Errorf("title = %q, want One IT", one.Title)
	}
	if one.NumericalID != 11 {
		t.Errorf("numerical id = %d, want 11", one.NumericalID)
	}
	if one.Group != "Sport" {
		t.Errorf("group = %q, want Sport", one.Group)
	}
}

func TestMergeChannelSetsEmpty(t *testing.T) {
	if got := MergeChannelSets(); len(got) != 0 {
		t.Errorf("no inputs should merge to empty set, got %v", got)
	}
	if got := MergeChannelSets(map[string]Channel{}, nil); len(got) != 0 {
		t.Errorf("empty inputs should merge to empty set, got %v", got)
	}
}

func TestMergeRecordsLastWins(t *testing.T) {
	first := []Record{
		{"id": "a", "title": "A v1"},
		{"id": "b", "title": "B"},
	}
	second := []Record{
		{"id": "a", "title": "A v2"},
	}

	got := MergeRecords(first, second)

	want := []Record{
		{"id": "a", "title": "A v2"},
		{"id": "b", "title": "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRecordsTitleFallbackKey(t *testing.T) {
	// Records without ids degrade to the normalized display title as key.
	first := []Record{{"title": "Café TV"}}
	second := []Record{{"title": "  café tv "}, {"other": "no key at all"}}

	got := MergeRecords(first, second)
	if len(got) != 1 {
		t.Fatalf("expected title-keyed dedup to 1 record, got %d: %v", len(got), got)
	}
}

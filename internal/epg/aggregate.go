// SPDX-License-Identifier: MIT

package epg

import (
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

// MergeChannelSets merges channel sets from multiple independent runs into a
// single deduplicated superset keyed by id. Later sets win on collision with
// field-level fill semantics (see Channel.merge), so callers must supply sets
// in a stable, meaningful order: the ordering is observable in the output
// whenever sources disagree.
func MergeChannelSets(sets ...map[string]Channel) map[string]Channel {
	out := map[string]Channel{}
	for _, set := range sets {
		for id, ch := range set {
			if id == "" {
				continue
			}
			if prev, ok := out[id]; ok {
				out[id] = prev.merge(ch)
			} else {
				out[id] = ch
			}
		}
	}
	return out
}

// Record is one already-serialized flat channel record from a previous run,
// kept as a loose map so foreign fields survive a merge round-trip.
type Record map[string]any

// recordKey prefers the explicit id field and degrades to the normalized
// display title for sources that omit identifiers.
func recordKey(r Record) string {
	if id, ok := r["id"].(string); ok && id != "" {
		return "id:" + id
	}
	if title, ok := r["title"].(string); ok && title != "" {
		return "title:" + unorm.NFC.String(strings.ToLower(strings.TrimSpace(title)))
	}
	return ""
}

// MergeRecords merges flat record lists from multiple runs, last-wins
// whole-record replacement on key collision. Records with neither id nor
// title are dropped. First-appearance order of surviving keys is preserved
// so the combined artifact is deterministic.
func MergeRecords(lists ...[]Record) []Record {
	index := map[string]int{}
	var out []Record
	for _, list := range lists {
		for _, rec := range list {
			key := recordKey(rec)
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				out[i] = rec
			} else {
				index[key] = len(out)
				out = append(out, rec)
			}
		}
	}
	return out
}

// SPDX-License-Identifier: MIT
package epg

import (
	"reflect"
	"testing"
	"time"
)

func TestParseXMLTVTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "with utc offset",
			in:   "20251116120000 +0000",
			want: time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "with positive offset",
			in:   "20251116120000 +0100",
			want: time.Date(2025, 11, 16, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "offset-less is interpreted as utc",
			in:   "20251116120000",
			want: time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace tolerated",
			in:   " 20251116120000 +0000 ",
			want: time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC),
		},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "truncated", in: "202511", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseXMLTVTime(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseXMLTVTime(%q) failed: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseXMLTVTime(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatXMLTVTimeRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 23, 59, 59, 0, time.FixedZone("CET", 3600)),
		time.Date(2024, 12, 31, 12, 0, 0, 0, time.FixedZone("", -5*3600)),
	}
	for _, want := range instants {
		got, err := ParseXMLTVTime(FormatXMLTVTime(want))
		if err != nil {
			t.Fatalf("round-trip parse failed for %v: %v", want, err)
		}
		if !got.Equal(want) {
			t.Errorf("round-trip %v -> %v", want, got)
		}
	}
}

func TestFilterWindowBoundaries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC)
	horizon := time.Hour

	tests := []struct {
		name string
		prog RawProgramme
		kept bool
	}{
		{
			name: "currently live is kept",
			prog: RawProgramme{ChannelID: "A", Start: "20250101000000 +0000", Stop: "20250101010000 +0000"},
			kept: true,
		},
		{
			name: "fully elapsed is dropped",
			prog: RawProgramme{ChannelID: "A", Start: "20241231220000 +0000", Stop: "20250101000000 +0000"},
			kept: false,
		},
		{
			name: "stop equal to now is excluded",
			prog: RawProgramme{ChannelID: "A", Start: "20250101000000 +0000", Stop: "20250101003000 +0000"},
			kept: false,
		},
		{
			name: "start equal to horizon boundary is excluded",
			prog: RawProgramme{ChannelID: "A", Start: "20250101013000 +0000", Stop: "20250101020000 +0000"},
			kept: false,
		},
		{
			name: "start just inside horizon is kept",
			prog: RawProgramme{ChannelID: "A", Start: "20250101012959 +0000", Stop: "20250101020000 +0000"},
			kept: true,
		},
		{
			name: "stop not after start is dropped",
			prog: RawProgramme{ChannelID: "A", Start: "20250101010000 +0000", Stop: "20250101010000 +0000"},
			kept: false,
		},
		{
			name: "missing stop is dropped",
			prog: RawProgramme{ChannelID: "A", Start: "20250101000000 +0000"},
			kept: false,
		},
		{
			name: "unparseable start is dropped",
			prog: RawProgramme{ChannelID: "A", Start: "not-a-time", Stop: "20250101010000 +0000"},
			kept: false,
		},
		{
			name: "missing channel id is dropped",
			prog: RawProgramme{Start: "20250101000000 +0000", Stop: "20250101010000 +0000"},
			kept: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterWindow([]RawProgramme{tc.prog}, now, horizon)
			if kept := len(got) == 1; kept != tc.kept {
				t.Errorf("kept = %v, want %v", kept, tc.kept)
			}
		})
	}
}

func TestFilterWindowScenarioFromLaterNow(t *testing.T) {
	// The same programme that is live at 00:30 is fully elapsed at 02:00.
	prog := RawProgramme{ChannelID: "A", Start: "20250101000000 +0000", Stop: "20250101010000 +0000"}

	live := FilterWindow([]RawProgramme{prog}, time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC), time.Hour)
	if len(live) != 1 {
		t.Fatalf("expected programme kept at 00:30, got %d", len(live))
	}
	gone := FilterWindow([]RawProgramme{prog}, time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC), time.Hour)
	if len(gone) != 0 {
		t.Fatalf("expected programme dropped at 02:00, got %d", len(gone))
	}
}

func TestFilterWindowOrderingPerChannel(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := []RawProgramme{
		{ChannelID: "B", Start: "20250101030000 +0000", Stop: "20250101040000 +0000", Title: "b2"},
		{ChannelID: "A", Start: "20250101020000 +0000", Stop: "20250101030000 +0000", Title: "a2"},
		{ChannelID: "B", Start: "20250101010000 +0000", Stop: "20250101020000 +0000", Title: "b1"},
		{ChannelID: "A", Start: "20250101000000 +0000", Stop: "20250101010000 +0000", Title: "a1"},
	}

	got := FilterWindow(raw, now, 24*time.Hour)
	titles := make([]string, 0, len(got))
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	// First-appearance channel order (B before A), starts ascending within
	// each channel.
	want := []string{"b1", "b2", "a1", "a2"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("order = %v, want %v", titles, want)
	}
}

func TestFilterWindowIdempotent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := []RawProgramme{
		{ChannelID: "A", Start: "20250101010000 +0000", Stop: "20250101020000 +0000", Title: "one"},
		{ChannelID: "A", Start: "20250101000000 +0000", Stop: "20250101010000 +0000", Title: "two"},
		{ChannelID: "C", Start: "bogus", Stop: "20250101010000 +0000"},
	}

	first := FilterWindow(raw, now, 6*time.Hour)
	second := FilterWindow(raw, now, 6*time.Hour)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated invocations differ:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestFilterWindowIndependentHorizons(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := []RawProgramme{
		{ChannelID: "A", Start: "20250101060000 +0000", Stop: "20250101070000 +0000", Title: "early"},
		{ChannelID: "A", Start: "20250101180000 +0000", Stop: "20250101190000 +0000", Title: "late"},
	}

	// A narrow window computed from the same raw document, not from the wide
	// window's output.
	wide := FilterWindow(raw, now, 24*time.Hour)
	narrow := FilterWindow(raw, now, 12*time.Hour)

	if len(wide) != 2 {
		t.Errorf("wide window kept %d, want 2", len(wide))
	}
	if len(narrow) != 1 || narrow[0].Title != "early" {
		t.Errorf("narrow window = %v, want only the early programme", narrow)
	}
}

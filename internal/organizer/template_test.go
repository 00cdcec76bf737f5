package organizer

import (
	"strings"
	"testing"
)

func TestRenderFolderTemplate(t *testing.T) {
	fields := Fields{Artist: "BTS", Album: "Map of the Soul - 7"}
	got := Render("{artist}/{album}", fields)
	if got != "BTS/Map of the Soul - 7" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderTrackPadding(t *testing.T) {
	tests := []struct {
		template string
		track    int
		want     string
	}{
		{"{track:02d} - {title}", 1, "01 - Black Swan"},
		{"{track:02d} - {title}", 12, "12 - Black Swan"},
		{"{track:03d} - {title}", 7, "007 - Black Swan"},
		{"{track} - {title}", 3, "3 - Black Swan"},
	}
	for _, tt := range tests {
		got := Render(tt.template, Fields{Title: "Black Swan", Track: tt.track})
		if got != tt.want {
			t.Errorf("Render(%q, track=%d) = %q, want %q", tt.template, tt.track, got, tt.want)
		}
	}
}

func TestRenderFallbacksForMissingFields(t *testing.T) {
	got := Render("{artist}/{album}", Fields{})
	if got != "Unknown Artist/Unknown Album" {
		t.Fatalf("Render() = %q", got)
	}
	if strings.Contains(Render("{title}", Fields{}), "{") {
		t.Fatal("missing field left a placeholder token in output")
	}
}

func TestRenderAlbumArtistFallsBackToArtist(t *testing.T) {
	got := Render("{album_artist}", Fields{Artist: "IU"})
	if got != "IU" {
		t.Fatalf("Render() = %q, want artist fallback", got)
	}
}

func TestRenderSegmentsSanitizesFieldValues(t *testing.T) {
	fields := Fields{Artist: "AC/DC", Album: "Back in Black"}
	segments := RenderSegments("{artist}/{album}", fields)
	if len(segments) != 2 {
		t.Fatalf("RenderSegments() = %v, want 2 segments", segments)
	}
	if segments[0] != "AC_DC" {
		t.Fatalf("artist segment = %q, want slash replaced", segments[0])
	}
}

func TestRenderSanitizationNeverFails(t *testing.T) {
	fields := Fields{Title: `Q&A: What/Why?`}
	segments := RenderSegments("{title}", fields)
	if len(segments) != 1 {
		t.Fatalf("RenderSegments() = %v", segments)
	}
	segment := segments[0]
	if strings.ContainsAny(segment, `/?:*"<>|\`) {
		t.Fatalf("segment %q still contains illegal characters", segment)
	}
}

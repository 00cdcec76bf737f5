package organizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tunetidy/internal/textutil"
)

// Fields are the values available to path templates.
type Fields struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Year        string
	Track       int
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)(?::0?(\d+)d)?\}`)

// Render expands a path template. Placeholders are {artist}, {album_artist},
// {album}, {title}, {year}, and {track}; {track:02d}-style forms zero-pad to
// the given width. Empty fields render as fallback literals so the output
// never contains an empty segment or a raw placeholder.
func Render(template string, fields Fields) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		parts := placeholderPattern.FindStringSubmatch(token)
		name, width := parts[1], parts[2]

		if name == "track" {
			if width != "" {
				pad, _ := strconv.Atoi(width)
				return fmt.Sprintf("%0*d", pad, fields.Track)
			}
			return strconv.Itoa(fields.Track)
		}

		value := ""
		switch name {
		case "artist":
			value = fields.Artist
		case "album_artist":
			value = fields.AlbumArtist
			if value == "" {
				value = fields.Artist
			}
		case "album":
			value = fields.Album
		case "title":
			value = fields.Title
		case "year":
			value = fields.Year
		}
		if value == "" {
			return fallbackFor(name)
		}
		return value
	})
}

// RenderSegments renders a folder template and sanitizes each resulting
// path segment independently, so a "/" inside a field value becomes a
// substitute character while the template's own separators keep their
// meaning.
func RenderSegments(template string, fields Fields) []string {
	segments := strings.Split(template, "/")
	rendered := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		rendered = append(rendered, textutil.SanitizeSegment(Render(segment, fields)))
	}
	return rendered
}

func fallbackFor(name string) string {
	switch name {
	case "artist", "album_artist":
		return "Unknown Artist"
	case "album":
		return "Unknown Album"
	case "title":
		return "Unknown Title"
	default:
		return "Unknown"
	}
}

package tagger

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	id3v2 "github.com/bogem/id3v2/v2"
	mediatag "github.com/dhowden/tag"

	"tunetidy/internal/logging"
	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/services"
)

const (
	descRecordingID = "MusicBrainz Recording Id"
	descReleaseID   = "MusicBrainz Release Id"
)

// FieldChange is a before and after pair for one tag field.
type FieldChange struct {
	Old string
	New string
}

// Tagger applies resolved metadata to MP3 files.
type Tagger struct {
	logger *slog.Logger
}

// New constructs a Tagger. A nil logger disables logging.
func New(logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tagger{logger: logger}
}

// Apply writes meta's frames to the file at path and returns the fields that
// differ from what the file carried. With dryRun set the file is left
// untouched and only the change set is computed.
func (t *Tagger) Apply(path string, meta musicbrainz.Metadata, dryRun bool) (map[string]FieldChange, error) {
	existing := readExisting(path)

	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, services.Wrap(services.ErrTagWrite, "tag", "open tags", fmt.Sprintf("parse %s", path), err)
	}
	defer id3.Close()

	id3.SetVersion(4)
	id3.SetDefaultEncoding(id3v2.EncodingUTF8)

	changes := make(map[string]FieldChange)
	setText := func(field, frameID, value string) {
		if value == "" {
			return
		}
		if old := existing[field]; old != value {
			changes[field] = FieldChange{Old: old, New: value}
		}
		id3.DeleteFrames(frameID)
		id3.AddTextFrame(frameID, id3.DefaultEncoding(), value)
	}

	setText("title", "TIT2", meta.Title)
	setText("artist", "TPE1", meta.Artist)
	setText("album_artist", "TPE2", meta.AlbumArtist)
	setText("album", "TALB", meta.Album)
	setText("track", "TRCK", positionValue(meta.TrackNumber, meta.TotalTracks))
	setText("disc", "TPOS", positionValue(meta.DiscNumber, 0))
	setText("year", "TDRC", meta.Year)
	setText("genre", "TCON", meta.Genre)

	oldRecordingID := userTextValue(id3, descRecordingID)
	setUserText(id3, descRecordingID, meta.RecordingID)
	setUserText(id3, descReleaseID, meta.ReleaseID)
	if meta.RecordingID != "" && oldRecordingID != meta.RecordingID {
		changes["recording_id"] = FieldChange{Old: oldRecordingID, New: meta.RecordingID}
	}

	if dryRun {
		t.logger.Debug("dry run, tags not written", logging.String("path", path), logging.Int("changes", len(changes)))
		return changes, nil
	}
	if len(changes) == 0 {
		t.logger.Debug("tags already current", logging.String("path", path))
		return changes, nil
	}

	if err := id3.Save(); err != nil {
		return nil, services.Wrap(services.ErrTagWrite, "tag", "write tags", fmt.Sprintf("save %s", path), err)
	}
	t.logger.Debug("tags written", logging.String("path", path), logging.Int("changes", len(changes)))
	return changes, nil
}

// setUserText replaces the TXXX frame with the given description, keeping
// user frames under other descriptions intact.
func setUserText(id3 *id3v2.Tag, description, value string) {
	if value == "" {
		return
	}

	var kept []id3v2.UserDefinedTextFrame
	for _, framer := range id3.GetFrames("TXXX") {
		frame, ok := framer.(id3v2.UserDefinedTextFrame)
		if !ok || frame.Description == description {
			continue
		}
		kept = append(kept, frame)
	}

	id3.DeleteFrames("TXXX")
	for _, frame := range kept {
		id3.AddUserDefinedTextFrame(frame)
	}
	id3.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: description,
		Value:       value,
	})
}

func userTextValue(id3 *id3v2.Tag, description string) string {
	for _, framer := range id3.GetFrames("TXXX") {
		if frame, ok := framer.(id3v2.UserDefinedTextFrame); ok && frame.Description == description {
			return frame.Value
		}
	}
	return ""
}

func positionValue(position, total int) string {
	if position <= 0 {
		return ""
	}
	if total > 0 {
		return strconv.Itoa(position) + "/" + strconv.Itoa(total)
	}
	return strconv.Itoa(position)
}

// Summary is the readable subset of a file's current tags.
type Summary struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Year        int
	Track       int
	TrackTotal  int
	Genre       string
}

// ReadSummary reads the current tags from path. Files without any readable
// tag return an empty summary and no error.
func ReadSummary(path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrScan, "scan", "read tags", fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	meta, err := mediatag.ReadFrom(file)
	if err != nil {
		return Summary{}, nil
	}

	track, total := meta.Track()
	return Summary{
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		AlbumArtist: meta.AlbumArtist(),
		Album:       meta.Album(),
		Year:        meta.Year(),
		Track:       track,
		TrackTotal:  total,
		Genre:       meta.Genre(),
	}, nil
}

// readExisting snapshots the current field values for change reporting.
// Untagged or unreadable files report empty values.
func readExisting(path string) map[string]string {
	values := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		return values
	}
	defer file.Close()

	meta, err := mediatag.ReadFrom(file)
	if err != nil {
		return values
	}

	values["title"] = meta.Title()
	values["artist"] = meta.Artist()
	values["album_artist"] = meta.AlbumArtist()
	values["album"] = meta.Album()
	values["genre"] = meta.Genre()
	if year := meta.Year(); year > 0 {
		values["year"] = strconv.Itoa(year)
	}
	track, total := meta.Track()
	values["track"] = positionValue(track, total)
	disc, _ := meta.Disc()
	values["disc"] = positionValue(disc, 0)
	return values
}

package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"tunetidy/internal/services"
)

const (
	// DefaultBaseURL is the public MusicBrainz web service endpoint.
	DefaultBaseURL = "https://musicbrainz.org/ws/2"

	userAgent = "tunetidy/1.0 (https://github.com/tunetidy/tunetidy)"
)

// Metadata is the resolved tag field set for one recording. Title, Artist,
// and Album must all be present for the metadata to be usable.
type Metadata struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	TrackNumber int
	TotalTracks int
	DiscNumber  int
	Year        string
	Genre       string
	RecordingID string
	ReleaseID   string
}

// Complete reports whether the metadata carries the fields required to tag
// and place a file.
func (m Metadata) Complete() bool {
	return m.Title != "" && m.Artist != "" && m.Album != ""
}

// Resolver fetches canonical metadata for a MusicBrainz recording ID.
type Resolver interface {
	Resolve(ctx context.Context, recordingID string) (Metadata, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMinInterval overrides the minimum spacing between requests.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pacer.interval = interval
		}
	}
}

// Client talks to the MusicBrainz web service. All requests share a single
// pacer, so concurrent callers are serialized to the service's rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pacer      *pacer
}

// New constructs a client against baseURL, falling back to the public
// endpoint when baseURL is empty.
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pacer:      &pacer{interval: time.Second},
	}
	if client.baseURL == "" {
		client.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Resolve looks up a recording and selects the best release for it. When the
// recording lookup does not carry the track position for the selected
// release, a follow-up release lookup fills it in.
func (c *Client) Resolve(ctx context.Context, recordingID string) (Metadata, error) {
	if strings.TrimSpace(recordingID) == "" {
		return Metadata{}, services.Wrap(services.ErrValidation, "identify", "musicbrainz resolve", "recording ID is required", nil)
	}

	var rec recordingResponse
	query := url.Values{}
	query.Set("inc", "artists+releases+release-groups+media+genres")
	query.Set("fmt", "json")
	if err := c.get(ctx, "/recording/"+recordingID, query, &rec); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Title:       rec.Title,
		Artist:      joinArtistCredit(rec.ArtistCredit),
		RecordingID: recordingID,
		Genre:       topGenre(rec.Genres),
	}

	release := selectRelease(rec.Releases)
	if release == nil {
		return meta, nil
	}

	meta.Album = release.Title
	meta.ReleaseID = release.ID
	meta.AlbumArtist = joinArtistCredit(release.ArtistCredit)
	if meta.AlbumArtist == "" {
		meta.AlbumArtist = meta.Artist
	}
	if len(release.Date) >= 4 {
		meta.Year = release.Date[:4]
	}

	if !fillTrackFromMedia(&meta, release.Media) {
		if err := c.fillTrackFromRelease(ctx, &meta, release.ID, recordingID); err != nil {
			return meta, err
		}
	}
	return meta, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.pacer.wait(ctx); err != nil {
		return services.Wrap(services.ErrNetwork, "identify", "musicbrainz request", "request canceled", err)
	}

	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrNetwork, "identify", "musicbrainz request", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrNetwork, "identify", "musicbrainz request", "service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "identify", "musicbrainz request", fmt.Sprintf("no entity at %s", path), nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrNetwork, "identify", "musicbrainz request", fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrNetwork, "identify", "musicbrainz request", "decode response", err)
	}
	return nil
}

func (c *Client) fillTrackFromRelease(ctx context.Context, meta *Metadata, releaseID, recordingID string) error {
	var rel releaseResponse
	query := url.Values{}
	query.Set("inc", "recordings")
	query.Set("fmt", "json")
	if err := c.get(ctx, "/release/"+releaseID, query, &rel); err != nil {
		return err
	}

	for _, medium := range rel.Media {
		for _, track := range medium.Tracks {
			if track.Recording.ID != recordingID {
				continue
			}
			meta.TrackNumber = track.Position
			meta.TotalTracks = medium.TrackCount
			meta.DiscNumber = medium.Position
			return nil
		}
	}
	return nil
}

// fillTrackFromMedia uses the per-recording track entries embedded in the
// recording lookup response. Reports whether a position was found.
func fillTrackFromMedia(meta *Metadata, media []medium) bool {
	for _, m := range media {
		for _, track := range append(m.Track, m.Tracks...) {
			if track.Position == 0 {
				continue
			}
			meta.TrackNumber = track.Position
			meta.TotalTracks = m.TrackCount
			meta.DiscNumber = m.Position
			return true
		}
	}
	return false
}

// selectRelease picks the most canonical release for a recording. Official
// releases dominate, then album over EP over single, then non-compilations.
// Ties keep the service's ordering.
func selectRelease(releases []release) *release {
	if len(releases) == 0 {
		return nil
	}

	best := 0
	bestScore := releaseScore(releases[0])
	for i := 1; i < len(releases); i++ {
		if score := releaseScore(releases[i]); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return &releases[best]
}

func releaseScore(rel release) int {
	score := 0
	if strings.EqualFold(rel.Status, "Official") {
		score += 100
	}
	switch strings.ToLower(rel.ReleaseGroup.PrimaryType) {
	case "album":
		score += 50
	case "ep":
		score += 40
	case "single":
		score += 30
	}
	if !isCompilation(rel.ReleaseGroup.SecondaryTypes) {
		score += 20
	}
	return score
}

func isCompilation(secondaryTypes []string) bool {
	for _, t := range secondaryTypes {
		if strings.EqualFold(t, "Compilation") {
			return true
		}
	}
	return false
}

func joinArtistCredit(credits []artistCredit) string {
	var builder strings.Builder
	for _, credit := range credits {
		name := credit.Name
		if name == "" {
			name = credit.Artist.Name
		}
		builder.WriteString(name)
		builder.WriteString(credit.JoinPhrase)
	}
	return strings.TrimSpace(builder.String())
}

func topGenre(genres []genre) string {
	if len(genres) == 0 {
		return ""
	}
	sorted := make([]genre, len(genres))
	copy(sorted, genres)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	return sorted[0].Name
}

// pacer serializes requests with a minimum interval between them.
type pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if remaining := p.interval - time.Since(p.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	p.last = time.Now()
	return nil
}

type recordingResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []release      `json:"releases"`
	Genres       []genre        `json:"genres"`
}

type releaseResponse struct {
	ID    string   `json:"id"`
	Media []medium `json:"media"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	ReleaseGroup releaseGroup   `json:"release-group"`
	Media        []medium       `json:"media"`
}

type releaseGroup struct {
	PrimaryType    string   `json:"primary-type"`
	SecondaryTypes []string `json:"secondary-types"`
}

type medium struct {
	Position   int     `json:"position"`
	TrackCount int     `json:"track-count"`
	Tracks     []track `json:"tracks"`
	// A recording lookup embeds the matching tracks under the singular
	// "track" key; "tracks" appears in release lookups.
	Track []track `json:"track"`
}

type track struct {
	Position  int `json:"position"`
	Recording struct {
		ID string `json:"id"`
	} `json:"recording"`
}

type artistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type genre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

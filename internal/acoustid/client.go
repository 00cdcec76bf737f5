package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tunetidy/internal/services"
)

// Match is a single identification candidate.
type Match struct {
	// RecordingID is the MusicBrainz recording this fingerprint may be.
	RecordingID string
	// Score is the service's confidence in [0,1].
	Score float64
}

// Lookuper defines the identification operation used by the pipeline.
type Lookuper interface {
	Lookup(ctx context.Context, fp string, durationSeconds int) ([]Match, error)
}

// Client calls the AcoustID lookup endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Lookuper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates an AcoustID client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("acoustid api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("acoustid base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type lookupResponse struct {
	Status  string `json:"status"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Results []struct {
		ID         string  `json:"id"`
		Score      float64 `json:"score"`
		Recordings []struct {
			ID string `json:"id"`
		} `json:"recordings"`
	} `json:"results"`
}

// Lookup queries the service with a fingerprint and duration. The returned
// matches keep the provider's ranking order. An empty slice means the
// service had no answer; transport and service errors are returned as
// network errors so callers can downgrade them to "no match" per policy.
func (c *Client) Lookup(ctx context.Context, fp string, durationSeconds int) ([]Match, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return nil, errors.New("fingerprint must not be empty")
	}
	if durationSeconds <= 0 {
		return nil, errors.New("duration must be positive")
	}

	endpoint, err := url.Parse(c.baseURL + "/lookup")
	if err != nil {
		return nil, fmt.Errorf("parse acoustid url: %w", err)
	}
	params := url.Values{}
	params.Set("client", c.apiKey)
	params.Set("fingerprint", fp)
	params.Set("duration", strconv.Itoa(durationSeconds))
	params.Set("meta", "recordings")
	params.Set("format", "json")

	// The lookup is form-encoded POST: fingerprints routinely exceed URL
	// length limits.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "identify", "acoustid lookup", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrNetwork, "identify", "acoustid lookup", fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "identify", "decode acoustid response", "", err)
	}
	if payload.Status != "ok" {
		detail := payload.Status
		if payload.Error != nil && payload.Error.Message != "" {
			detail = payload.Error.Message
		}
		return nil, services.Wrap(services.ErrNetwork, "identify", "acoustid lookup", detail, nil)
	}

	matches := make([]Match, 0, len(payload.Results))
	for _, result := range payload.Results {
		if len(result.Recordings) == 0 {
			continue
		}
		// The first listed recording is the service's preferred attribution.
		matches = append(matches, Match{
			RecordingID: result.Recordings[0].ID,
			Score:       result.Score,
		})
	}
	return matches, nil
}

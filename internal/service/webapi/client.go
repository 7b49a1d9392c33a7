package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/spotui/internal/domain"
	"go.uber.org/zap"
)

const (
	_userAgent       = "spotui/1.0"
	_defaultTimeout  = 10 * time.Second
	_maxBody         = 4 * 1024 * 1024
	playlistPageSize = 50
	trackPageSize    = 100
)

var _ domain.PlaybackService = (*Client)(nil)

// Client talks to the Spotify Web API with a pre-issued bearer token
type Client struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
	token   string
}

// NewClient creates a Web API client. baseURL is usually https://api.spotify.com/v1.
func NewClient(logger *zap.Logger, baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = _defaultTimeout
	}
	return &Client{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// do sends one request and decodes a JSON response into out when out is non-nil.
// It returns the status code of successful responses.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) (int, error) {
	if c.token == "" {
		return 0, &domain.ServiceError{
			Kind:    domain.KindAuth,
			Op:      op,
			Message: "no access token configured (set SPOTUI_ACCESS_TOKEN or webapi.access_token)",
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, domain.NewServiceError(op, domain.KindService, fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, domain.NewServiceError(op, domain.KindService, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", _userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, domain.NewServiceError(op, domain.KindNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxBody))
	if err != nil {
		return 0, domain.NewServiceError(op, domain.KindNetwork, fmt.Errorf("failed to read body: %w", err))
	}

	c.logger.Debug("Web API request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(op, resp, data)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, domain.NewServiceError(op, domain.KindService, fmt.Errorf("failed to decode response: %w", err))
		}
	}
	return resp.StatusCode, nil
}

// statusError maps an error response onto a ServiceError
func statusError(op string, resp *http.Response, data []byte) error {
	var kind domain.ErrorKind
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = domain.KindAuth
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.KindNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = domain.KindRateLimited
	default:
		kind = domain.KindService
	}

	var parsed errorResponse
	message := ""
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	} else {
		message = http.StatusText(resp.StatusCode)
	}
	if kind == domain.KindRateLimited {
		if retry := resp.Header.Get("Retry-After"); retry != "" {
			message += " (retry after " + retry + "s)"
		}
	}

	return &domain.ServiceError{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     fmt.Errorf("status %d", resp.StatusCode),
	}
}

// CurrentSnapshot reads /me/player; 204 means no active device
func (c *Client) CurrentSnapshot(ctx context.Context) (*domain.PlaybackSnapshot, error) {
	var state playbackState
	status, err := c.do(ctx, "snapshot", http.MethodGet, "/me/player", url.Values{"additional_types": {"track"}}, nil, &state)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return state.snapshot(), nil
}

func (c *Client) Play(ctx context.Context) error {
	_, err := c.do(ctx, "play", http.MethodPut, "/me/player/play", nil, nil, nil)
	return err
}

func (c *Client) Pause(ctx context.Context) error {
	_, err := c.do(ctx, "pause", http.MethodPut, "/me/player/pause", nil, nil, nil)
	return err
}

func (c *Client) Next(ctx context.Context) error {
	_, err := c.do(ctx, "next", http.MethodPost, "/me/player/next", nil, nil, nil)
	return err
}

func (c *Client) Previous(ctx context.Context) error {
	_, err := c.do(ctx, "previous", http.MethodPost, "/me/player/previous", nil, nil, nil)
	return err
}

func (c *Client) SetVolume(ctx context.Context, percent int) error {
	q := url.Values{"volume_percent": {strconv.Itoa(percent)}}
	_, err := c.do(ctx, "volume", http.MethodPut, "/me/player/volume", q, nil, nil)
	return err
}

func (c *Client) SetShuffle(ctx context.Context, on bool) error {
	q := url.Values{"state": {strconv.FormatBool(on)}}
	_, err := c.do(ctx, "shuffle", http.MethodPut, "/me/player/shuffle", q, nil, nil)
	return err
}

func (c *Client) SetRepeat(ctx context.Context, mode domain.RepeatMode) error {
	if !mode.Valid() {
		return &domain.ServiceError{Kind: domain.KindService, Op: "repeat", Message: fmt.Sprintf("unknown repeat mode %q", mode)}
	}
	q := url.Values{"state": {string(mode)}}
	_, err := c.do(ctx, "repeat", http.MethodPut, "/me/player/repeat", q, nil, nil)
	return err
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.TrackRef, error) {
	q := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}
	var resp searchResponse
	if _, err := c.do(ctx, "search", http.MethodGet, "/search", q, nil, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.TrackRef, 0, len(resp.Tracks.Items))
	for _, t := range resp.Tracks.Items {
		tracks = append(tracks, t.ref())
	}
	return tracks, nil
}

func (c *Client) PlayTrack(ctx context.Context, uri string) error {
	body := map[string][]string{"uris": {uri}}
	_, err := c.do(ctx, "play track", http.MethodPut, "/me/player/play", nil, body, nil)
	return err
}

func (c *Client) PlayPlaylist(ctx context.Context, uri string) error {
	body := map[string]string{"context_uri": uri}
	_, err := c.do(ctx, "play playlist", http.MethodPut, "/me/player/play", nil, body, nil)
	return err
}

func (c *Client) AddToQueue(ctx context.Context, uri string) error {
	_, err := c.do(ctx, "queue", http.MethodPost, "/me/player/queue", url.Values{"uri": {uri}}, nil, nil)
	return err
}

// ListPlaylists returns every playlist of the current user
func (c *Client) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	for offset := 0; ; {
		q := url.Values{"limit": {strconv.Itoa(playlistPageSize)}, "offset": {strconv.Itoa(offset)}}
		var page playlistPage
		if _, err := c.do(ctx, "playlists", http.MethodGet, "/me/playlists", q, nil, &page); err != nil {
			return nil, err
		}
		for _, p := range page.Items {
			playlists = append(playlists, p.playlist())
		}
		offset += len(page.Items)
		if page.Next == "" || len(page.Items) < playlistPageSize {
			return playlists, nil
		}
	}
}

// PlaylistTracks returns every track of a playlist, skipping unavailable entries
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.TrackRef, error) {
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"

	var tracks []domain.TrackRef
	for offset := 0; ; {
		q := url.Values{"limit": {strconv.Itoa(trackPageSize)}, "offset": {strconv.Itoa(offset)}}
		var page playlistTrackPage
		if _, err := c.do(ctx, "playlist tracks", http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Track != nil && item.Track.URI != "" {
				tracks = append(tracks, item.Track.ref())
			}
		}
		offset += len(page.Items)
		if page.Next == "" || len(page.Items) < trackPageSize {
			return tracks, nil
		}
	}
}

// CreatePlaylist creates a playlist owned by the current user
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (domain.Playlist, error) {
	var me userObject
	if _, err := c.do(ctx, "create playlist", http.MethodGet, "/me", nil, nil, &me); err != nil {
		return domain.Playlist{}, err
	}
	if me.ID == "" {
		return domain.Playlist{}, &domain.ServiceError{Kind: domain.KindService, Op: "create playlist", Message: "user id missing from profile"}
	}

	body := map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      public,
	}
	var created playlistObject
	if _, err := c.do(ctx, "create playlist", http.MethodPost, "/users/"+url.PathEscape(me.ID)+"/playlists", nil, body, &created); err != nil {
		return domain.Playlist{}, err
	}
	return created.playlist(), nil
}

func (c *Client) AddTrackToPlaylist(ctx context.Context, playlistID, uri string) error {
	body := map[string][]string{"uris": {uri}}
	_, err := c.do(ctx, "add to playlist", http.MethodPost, "/playlists/"+url.PathEscape(playlistID)+"/tracks", nil, body, nil)
	return err
}

// RemoveTrackFromPlaylist removes every occurrence of uri
func (c *Client) RemoveTrackFromPlaylist(ctx context.Context, playlistID, uri string) error {
	body := map[string][]map[string]string{"tracks": {{"uri": uri}}}
	_, err := c.do(ctx, "remove from playlist", http.MethodDelete, "/playlists/"+url.PathEscape(playlistID)+"/tracks", nil, body, nil)
	return err
}

package engine

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/spotui/internal/domain"
	"go.uber.org/zap"
)

const defaultFetchTimeout = 3 * time.Second

// Settings are the scheduler options taken from the application config
type Settings struct {
	FetchTimeout time.Duration
	ArtEnabled   bool
}

// Scheduler issues snapshot and artwork fetches and applies their results to State.
//
// Every fetch is tagged with a token from its own stream. A snapshot result is
// applied only if its token is newer than the last applied one, so a slow
// fetch can never overwrite a newer result. Artwork has an independent
// stream so a slow image never delays text updates.
//
// All methods must be called from the event loop; the returned commands run
// elsewhere and only report back through messages.
type Scheduler struct {
	logger   *zap.Logger
	service  domain.PlaybackService
	fetcher  domain.Fetcher
	renderer domain.GlyphRenderer

	timeout    time.Duration
	artEnabled bool

	issued  FetchToken
	applied FetchToken

	artIssued   FetchToken
	artInFlight string
	// artInFlightToken is the token of the fetch for artInFlight
	artInFlightToken FetchToken
	artData     []byte
	artDataURL  string
	artW, artH  int
}

// NewScheduler creates a new refresh scheduler
func NewScheduler(
	logger *zap.Logger,
	service domain.PlaybackService,
	fetcher domain.Fetcher,
	renderer domain.GlyphRenderer,
	settings Settings,
) *Scheduler {
	s := &Scheduler{
		logger:     logger,
		service:    service,
		fetcher:    fetcher,
		renderer:   renderer,
		artEnabled: settings.ArtEnabled,
	}
	s.SetFetchTimeout(settings.FetchTimeout)
	return s
}

// SetFetchTimeout changes the timeout used by fetches issued from now on
func (s *Scheduler) SetFetchTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultFetchTimeout
	}
	s.timeout = d
}

// NextTick schedules the next TickMsg
func NextTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Fetch issues a snapshot fetch tagged with a new token. Older fetches that
// are still running are superseded rather than cancelled.
func (s *Scheduler) Fetch() tea.Cmd {
	s.issued++
	token := s.issued
	service, timeout, logger := s.service, s.timeout, s.logger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := service.CurrentSnapshot(ctx)
		if err != nil {
			logger.Debug("Snapshot fetch failed", zap.Uint64("token", uint64(token)), zap.Error(err))
		}
		return SnapshotMsg{Token: token, Snapshot: snap, Err: err, FetchedAt: time.Now()}
	}
}

// Outstanding returns how many issued snapshot fetches are newer than the last applied one
func (s *Scheduler) Outstanding() int {
	return int(s.issued - s.applied)
}

// ApplySnapshot applies a fetch result if it is the newest seen so far and
// returns an artwork command when the album art needs to be (re)rendered.
func (s *Scheduler) ApplySnapshot(st *State, msg SnapshotMsg) tea.Cmd {
	if msg.Token <= s.applied {
		s.logger.Debug("Discarding stale snapshot",
			zap.Uint64("token", uint64(msg.Token)),
			zap.Uint64("applied", uint64(s.applied)))
		return nil
	}
	s.applied = msg.Token

	if msg.Err != nil {
		st.LastError = msg.Err.Error()
		if !st.Obtained {
			st.Unavailable = true
		}
		s.logger.Warn("Keeping previous playback state after failed fetch",
			zap.Uint64("token", uint64(msg.Token)),
			zap.Bool("unavailable", st.Unavailable),
			zap.Error(msg.Err))
		return nil
	}

	st.Obtained = true
	st.Unavailable = false
	st.LastError = ""
	st.Snapshot = msg.Snapshot
	st.UpdatedAt = msg.FetchedAt

	if msg.Snapshot == nil {
		st.Idle = true
		st.Art = domain.GlyphGrid{}
		st.ArtURL = ""
		st.ArtFailed = false
		return nil
	}
	st.Idle = false
	return s.artworkFor(st, msg.Snapshot.AlbumImageURL, false)
}

// artworkFor returns a fetch+render command for url unless it is already
// rendered or being fetched. force skips both checks.
func (s *Scheduler) artworkFor(st *State, url string, force bool) tea.Cmd {
	if !s.artEnabled || s.artW <= 0 || s.artH <= 0 {
		return nil
	}
	if url == "" {
		st.Art = domain.GlyphGrid{}
		st.ArtURL = ""
		st.ArtFailed = false
		return nil
	}
	if !force && url == st.ArtURL && !st.ArtFailed {
		return nil
	}
	if !force && url == s.artInFlight {
		return nil
	}

	s.artIssued++
	s.artInFlight = url
	s.artInFlightToken = s.artIssued
	token, w, h := s.artIssued, s.artW, s.artH
	fetcher, renderer, timeout, logger := s.fetcher, s.renderer, s.timeout, s.logger

	logger.Debug("Fetching artwork", zap.Uint64("token", uint64(token)), zap.String("url", url))
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := fetcher.Fetch(ctx, url)
		if err != nil {
			grid, _ := renderer.Render(nil, w, h)
			return ArtworkMsg{Token: token, URL: url, Grid: grid, Err: err, Width: w, Height: h}
		}
		grid, err := renderer.Render(data, w, h)
		return ArtworkMsg{Token: token, URL: url, Data: data, Grid: grid, Err: err, Width: w, Height: h}
	}
}

// ApplyArtwork applies a rendered grid if it belongs to the newest artwork
// request and still matches the current track
func (s *Scheduler) ApplyArtwork(st *State, msg ArtworkMsg) {
	// A superseded result still ends the fetch it belongs to
	if msg.URL == s.artInFlight && msg.Token >= s.artInFlightToken {
		s.artInFlight = ""
	}
	if msg.Token != s.artIssued {
		s.logger.Debug("Discarding superseded artwork",
			zap.Uint64("token", uint64(msg.Token)),
			zap.Uint64("latest", uint64(s.artIssued)))
		return
	}
	if st.Snapshot == nil || st.Snapshot.AlbumImageURL != msg.URL {
		s.logger.Debug("Discarding artwork for a previous track", zap.String("url", msg.URL))
		return
	}

	st.Art = msg.Grid
	st.ArtURL = msg.URL
	st.ArtFailed = msg.Err != nil
	if msg.Err != nil {
		s.logger.Warn("Showing artwork placeholder", zap.String("url", msg.URL), zap.Error(msg.Err))
		return
	}
	if msg.Data != nil {
		s.artData = msg.Data
		s.artDataURL = msg.URL
	}
}

// ResizeArt records the image panel's inner size. When it changed, the cached
// artwork is re-rendered without touching the network, or fetched if it was
// never rendered.
func (s *Scheduler) ResizeArt(st *State, width, height int) tea.Cmd {
	if width == s.artW && height == s.artH {
		return nil
	}
	s.artW, s.artH = width, height
	if !s.artEnabled || width <= 0 || height <= 0 {
		return nil
	}

	if !st.Snapshot.HasArtwork() {
		return nil
	}
	url := st.Snapshot.AlbumImageURL

	// The cache is only valid for the track on screen
	if s.artData != nil && s.artDataURL == url && st.ArtURL == url && !st.ArtFailed {
		s.artIssued++
		token, data := s.artIssued, s.artData
		renderer := s.renderer
		return func() tea.Msg {
			grid, err := renderer.Render(data, width, height)
			return ArtworkMsg{Token: token, URL: url, Data: data, Grid: grid, Err: err, Width: width, Height: height}
		}
	}

	return s.artworkFor(st, url, true)
}

// ArtSize returns the cell size artwork is rendered at
func (s *Scheduler) ArtSize() (int, int) {
	return s.artW, s.artH
}

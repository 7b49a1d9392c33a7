package domain

import "context"

// PlaybackService is the remote (or local) music service the dashboard talks to.
// Every method returns a *ServiceError on failure.
//
//go:generate mockgen -destination=mocks/playback_service_mock.go -package=mocks github.com/genricoloni/spotui/internal/domain PlaybackService
type PlaybackService interface {
	// CurrentSnapshot returns the current playback state.
	// A nil snapshot with a nil error means nothing is playing.
	CurrentSnapshot(ctx context.Context) (*PlaybackSnapshot, error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// SetVolume sets the volume percentage; callers clamp to 0..100
	SetVolume(ctx context.Context, percent int) error
	SetShuffle(ctx context.Context, on bool) error
	SetRepeat(ctx context.Context, mode RepeatMode) error

	Search(ctx context.Context, query string, limit int) ([]TrackRef, error)
	PlayTrack(ctx context.Context, uri string) error
	AddToQueue(ctx context.Context, uri string) error

	ListPlaylists(ctx context.Context) ([]Playlist, error)
	// PlaylistTracks returns every track of the playlist, following pagination
	PlaylistTracks(ctx context.Context, playlistID string) ([]TrackRef, error)
	PlayPlaylist(ctx context.Context, uri string) error
	CreatePlaylist(ctx context.Context, name, description string, public bool) (Playlist, error)
	AddTrackToPlaylist(ctx context.Context, playlistID, uri string) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, uri string) error
}

// ChangeNotifier is implemented by services that can push "something changed"
// hints, letting the dashboard refresh before the next tick.
type ChangeNotifier interface {
	// Changes returns a channel that receives a value whenever playback state changes.
	// The channel is closed when the service stops.
	Changes() <-chan struct{}
}

// Lifecycle is implemented by services holding connections that must be opened and closed
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads image data from a URL
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// GlyphRenderer turns raw image bytes into a width x height glyph grid.
// It always returns a grid of the requested shape; a non-nil error explains
// why the grid is a fallback placeholder.
type GlyphRenderer interface {
	Render(imgData []byte, width, height int) (GlyphGrid, error)
}

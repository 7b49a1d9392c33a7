package engine

import (
	"time"

	"github.com/genricoloni/spotui/internal/domain"
)

// FetchToken tags an asynchronous fetch; larger tokens are newer
type FetchToken uint64

// State is the dashboard state. It is owned by the event loop and only
// mutated through the Scheduler.
type State struct {
	// Snapshot is the current playback state, nil when idle or not yet known
	Snapshot *domain.PlaybackSnapshot
	// Obtained is set once any fetch has succeeded
	Obtained bool
	// Unavailable is set when every fetch so far has failed
	Unavailable bool
	// Idle is set when the service reports that nothing is playing
	Idle bool
	// LastError is the text of the latest failed fetch, cleared on success
	LastError string
	// UpdatedAt is when the current snapshot was fetched
	UpdatedAt time.Time

	// Art is the current glyph grid, empty until the first render
	Art domain.GlyphGrid
	// ArtURL is the image URL Art was rendered from
	ArtURL string
	// ArtFailed is set when Art is the placeholder for ArtURL
	ArtFailed bool
}

// TickMsg is delivered once per refresh interval
type TickMsg time.Time

// SnapshotMsg carries the result of a snapshot fetch back to the loop
type SnapshotMsg struct {
	Token     FetchToken
	Snapshot  *domain.PlaybackSnapshot
	Err       error
	FetchedAt time.Time
}

// ArtworkMsg carries a rendered glyph grid back to the loop
type ArtworkMsg struct {
	Token  FetchToken
	URL    string
	Data   []byte
	Grid   domain.GlyphGrid
	Err    error
	Width  int
	Height int
}

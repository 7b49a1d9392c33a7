package domain

// RepeatMode is the repeat setting of the player
type RepeatMode string

const (
	// RepeatOff disables repeat
	RepeatOff RepeatMode = "off"
	// RepeatContext repeats the current album or playlist
	RepeatContext RepeatMode = "context"
	// RepeatTrack repeats the current track
	RepeatTrack RepeatMode = "track"
)

// repeatCycle is the order used when cycling through repeat modes
var repeatCycle = []RepeatMode{RepeatOff, RepeatContext, RepeatTrack}

// Next returns the repeat mode that follows m in the off → context → track cycle.
// Unknown modes restart the cycle at RepeatContext, as if they were RepeatOff.
func (m RepeatMode) Next() RepeatMode {
	for i, mode := range repeatCycle {
		if mode == m {
			return repeatCycle[(i+1)%len(repeatCycle)]
		}
	}
	return RepeatContext
}

// Valid reports whether m is one of the known repeat modes
func (m RepeatMode) Valid() bool {
	switch m {
	case RepeatOff, RepeatContext, RepeatTrack:
		return true
	}
	return false
}

// ParseRepeatMode converts a user or wire supplied string into a RepeatMode
func ParseRepeatMode(s string) (RepeatMode, bool) {
	m := RepeatMode(s)
	return m, m.Valid()
}

// PlaybackSnapshot is the playback state reported by the service at one point in time.
// A snapshot is never mutated after construction; a newer fetch replaces it wholesale.
type PlaybackSnapshot struct {
	// Title of the currently playing track
	Title string
	// Artists in the order reported by the service
	Artists []string
	// Album name
	Album string
	// ProgressMs is the playback position in milliseconds
	ProgressMs int64
	// DurationMs is the track length in milliseconds
	DurationMs int64
	// IsPlaying is false when paused
	IsPlaying bool
	// Shuffle is the shuffle state
	Shuffle bool
	// Repeat is the repeat state
	Repeat RepeatMode
	// AlbumImageURL points to the album artwork, empty when the service has none
	AlbumImageURL string
	// Device is the name of the active playback device, if known
	Device string
	// Volume is the volume percentage, -1 when unknown
	Volume int
}

// HasArtwork reports whether the snapshot references album art
func (s *PlaybackSnapshot) HasArtwork() bool {
	return s != nil && s.AlbumImageURL != ""
}

// TrackRef identifies a playable track returned by search or playlist listings
type TrackRef struct {
	Name    string
	Artists []string
	Album   string
	URI     string
}

// Playlist is a user playlist
type Playlist struct {
	ID          string
	Name        string
	URI         string
	TotalTracks int
}

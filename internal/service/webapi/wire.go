package webapi

import "github.com/genricoloni/spotui/internal/domain"

// Response bodies of the Web API, reduced to the fields the dashboard reads

type artistObject struct {
	Name string `json:"name"`
}

type imageObject struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type albumObject struct {
	Name   string        `json:"name"`
	Images []imageObject `json:"images"`
}

type trackObject struct {
	Name       string         `json:"name"`
	URI        string         `json:"uri"`
	DurationMs int64          `json:"duration_ms"`
	Artists    []artistObject `json:"artists"`
	Album      albumObject    `json:"album"`
}

type deviceObject struct {
	Name          string `json:"name"`
	VolumePercent *int   `json:"volume_percent"`
}

type playbackState struct {
	Device       *deviceObject `json:"device"`
	ShuffleState bool          `json:"shuffle_state"`
	RepeatState  string        `json:"repeat_state"`
	ProgressMs   int64         `json:"progress_ms"`
	IsPlaying    bool          `json:"is_playing"`
	Item         *trackObject  `json:"item"`
}

type searchResponse struct {
	Tracks struct {
		Items []trackObject `json:"items"`
	} `json:"tracks"`
}

type playlistObject struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URI    string `json:"uri"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type playlistPage struct {
	Items []playlistObject `json:"items"`
	Next  string           `json:"next"`
}

type playlistTrackPage struct {
	Items []struct {
		Track *trackObject `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type userObject struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func artistNames(artists []artistObject) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}

func (t trackObject) ref() domain.TrackRef {
	return domain.TrackRef{
		Name:    t.Name,
		Artists: artistNames(t.Artists),
		Album:   t.Album.Name,
		URI:     t.URI,
	}
}

func (p playlistObject) playlist() domain.Playlist {
	return domain.Playlist{ID: p.ID, Name: p.Name, URI: p.URI, TotalTracks: p.Tracks.Total}
}

// snapshot converts a playback state; nil when no track is loaded
func (s *playbackState) snapshot() *domain.PlaybackSnapshot {
	if s == nil || s.Item == nil {
		return nil
	}

	snap := &domain.PlaybackSnapshot{
		Title:      s.Item.Name,
		Artists:    artistNames(s.Item.Artists),
		Album:      s.Item.Album.Name,
		ProgressMs: s.ProgressMs,
		DurationMs: s.Item.DurationMs,
		IsPlaying:  s.IsPlaying,
		Shuffle:    s.ShuffleState,
		Repeat:     domain.RepeatOff,
		Volume:     -1,
	}
	if mode, ok := domain.ParseRepeatMode(s.RepeatState); ok {
		snap.Repeat = mode
	}
	// The first image is the largest
	if len(s.Item.Album.Images) > 0 {
		snap.AlbumImageURL = s.Item.Album.Images[0].URL
	}
	if s.Device != nil {
		snap.Device = s.Device.Name
		if s.Device.VolumePercent != nil {
			snap.Volume = *s.Device.VolumePercent
		}
	}
	if snap.ProgressMs < 0 {
		snap.ProgressMs = 0
	}
	return snap
}

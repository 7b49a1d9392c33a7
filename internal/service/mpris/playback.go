package mpris

import (
	"context"
	"fmt"
	"math"

	"github.com/genricoloni/spotui/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// loopStatus maps repeat modes onto the MPRIS LoopStatus values
var loopStatus = map[domain.RepeatMode]string{
	domain.RepeatOff:     "None",
	domain.RepeatContext: "Playlist",
	domain.RepeatTrack:   "Track",
}

// CurrentSnapshot reads the player properties. A stopped player, or one
// without metadata, reports nothing playing.
func (c *Client) CurrentSnapshot(ctx context.Context) (*domain.PlaybackSnapshot, error) {
	const op = "snapshot"
	conn, bus, err := c.connection(op)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewServiceError(op, "", err)
	}

	statusVariant, err := conn.GetProperty(bus, objectPath, playerIface+".PlaybackStatus")
	if err != nil {
		return nil, c.wrap(op, bus, err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return nil, &domain.ServiceError{Kind: domain.KindService, Op: op, Message: "invalid playback status format"}
	}
	if status == "Stopped" {
		return nil, nil
	}

	variant, err := conn.GetProperty(bus, objectPath, playerIface+".Metadata")
	if err != nil {
		return nil, c.wrap(op, bus, err)
	}

	// Some players return nil or unexpected types if not playing anything
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok || len(metadata) == 0 {
		c.logger.Debug("Metadata variant is not a map, reporting idle", zap.String("player", bus))
		return nil, nil
	}

	snap := c.parseMetadata(metadata)
	snap.IsPlaying = status == "Playing"
	snap.Device = bus[len(busPrefix):]
	snap.Repeat = domain.RepeatOff
	snap.Volume = -1

	// The remaining properties are optional in MPRIS
	if v, err := conn.GetProperty(bus, objectPath, playerIface+".Position"); err == nil {
		if pos, ok := toInt64(v.Value()); ok && pos > 0 {
			snap.ProgressMs = pos / 1000
		}
	}
	if v, err := conn.GetProperty(bus, objectPath, playerIface+".Shuffle"); err == nil {
		snap.Shuffle, _ = v.Value().(bool)
	}
	if v, err := conn.GetProperty(bus, objectPath, playerIface+".LoopStatus"); err == nil {
		if s, ok := v.Value().(string); ok {
			snap.Repeat = repeatFromLoop(s)
		}
	}
	if v, err := conn.GetProperty(bus, objectPath, playerIface+".Volume"); err == nil {
		if vol, ok := v.Value().(float64); ok {
			snap.Volume = int(math.Round(math.Max(0, math.Min(1, vol)) * 100))
		}
	}
	if snap.ProgressMs > snap.DurationMs && snap.DurationMs > 0 {
		snap.ProgressMs = snap.DurationMs
	}

	return snap, nil
}

// parseMetadata converts MPRIS metadata to a snapshot
func (c *Client) parseMetadata(metadata map[string]dbus.Variant) *domain.PlaybackSnapshot {
	snap := &domain.PlaybackSnapshot{}

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			snap.Title = title
		}
	}

	// xesam:artist is a list, but some non-compliant players send a string
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			snap.Artists = append(snap.Artists, artists...)
		case string:
			if artists != "" {
				snap.Artists = []string{artists}
			}
		default:
			c.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	if albumVar, ok := metadata["xesam:album"]; ok {
		if album, ok := albumVar.Value().(string); ok {
			snap.Album = album
		}
	}

	if lengthVar, ok := metadata["mpris:length"]; ok {
		if length, ok := toInt64(lengthVar.Value()); ok && length > 0 {
			snap.DurationMs = length / 1000
		}
	}

	// Browsers and local files may send an empty artUrl
	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok {
			snap.AlbumImageURL = artURL
		}
	}

	return snap
}

// toInt64 accepts the integer types players use for microsecond values
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func repeatFromLoop(status string) domain.RepeatMode {
	for mode, s := range loopStatus {
		if s == status {
			return mode
		}
	}
	return domain.RepeatOff
}

// call invokes a method of the player interface
func (c *Client) call(ctx context.Context, op, method string, args ...interface{}) error {
	conn, bus, err := c.connection(op)
	if err != nil {
		return err
	}
	if err := conn.Call(ctx, bus, objectPath, playerIface+"."+method, args...); err != nil {
		return c.wrap(op, bus, err)
	}
	c.logger.Debug("MPRIS call", zap.String("player", bus), zap.String("method", method))
	return nil
}

// set writes a property of the player interface
func (c *Client) set(op, prop string, value interface{}) error {
	conn, bus, err := c.connection(op)
	if err != nil {
		return err
	}
	if err := conn.SetProperty(bus, objectPath, playerIface+"."+prop, value); err != nil {
		return c.wrap(op, bus, err)
	}
	return nil
}

func (c *Client) Play(ctx context.Context) error {
	return c.call(ctx, "play", "Play")
}

func (c *Client) Pause(ctx context.Context) error {
	return c.call(ctx, "pause", "Pause")
}

func (c *Client) Next(ctx context.Context) error {
	return c.call(ctx, "next", "Next")
}

func (c *Client) Previous(ctx context.Context) error {
	return c.call(ctx, "previous", "Previous")
}

// SetVolume writes the MPRIS Volume property, a fraction between 0 and 1
func (c *Client) SetVolume(_ context.Context, percent int) error {
	return c.set("volume", "Volume", float64(percent)/100)
}

func (c *Client) SetShuffle(_ context.Context, on bool) error {
	return c.set("shuffle", "Shuffle", on)
}

func (c *Client) SetRepeat(_ context.Context, mode domain.RepeatMode) error {
	status, ok := loopStatus[mode]
	if !ok {
		return &domain.ServiceError{Kind: domain.KindService, Op: "repeat", Message: fmt.Sprintf("unknown repeat mode %q", mode)}
	}
	return c.set("repeat", "LoopStatus", status)
}

// PlayTrack opens a URI in the player, which the Spotify desktop app starts playing
func (c *Client) PlayTrack(ctx context.Context, uri string) error {
	return c.call(ctx, "play track", "OpenUri", uri)
}

// PlayPlaylist opens a playlist URI in the player
func (c *Client) PlayPlaylist(ctx context.Context, uri string) error {
	return c.call(ctx, "play playlist", "OpenUri", uri)
}

func (c *Client) Search(context.Context, string, int) ([]domain.TrackRef, error) {
	return nil, domain.Unsupported("search", backendName)
}

func (c *Client) AddToQueue(context.Context, string) error {
	return domain.Unsupported("queue", backendName)
}

func (c *Client) ListPlaylists(context.Context) ([]domain.Playlist, error) {
	return nil, domain.Unsupported("playlists", backendName)
}

func (c *Client) PlaylistTracks(context.Context, string) ([]domain.TrackRef, error) {
	return nil, domain.Unsupported("playlist tracks", backendName)
}

func (c *Client) CreatePlaylist(context.Context, string, string, bool) (domain.Playlist, error) {
	return domain.Playlist{}, domain.Unsupported("create playlist", backendName)
}

func (c *Client) AddTrackToPlaylist(context.Context, string, string) error {
	return domain.Unsupported("add to playlist", backendName)
}

func (c *Client) RemoveTrackFromPlaylist(context.Context, string, string) error {
	return domain.Unsupported("remove from playlist", backendName)
}

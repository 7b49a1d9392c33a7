package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/spotui/internal/domain"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrNothingPlaying is returned by commands that need a current track
	ErrNothingPlaying = errors.New("nothing is playing")
	// ErrNoTarget is returned by save and remove before a playlist was opened
	ErrNoTarget = errors.New("no playlist opened (use open N)")
	// ErrNoEntry is returned when N does not select an entry of the list panel
	ErrNoEntry = errors.New("no such entry")
)

// ListKind tells what the list panel holds
type ListKind int

const (
	ListNone ListKind = iota
	ListTracks
	ListPlaylists
	ListHelp
)

// List is the content of the list panel
type List struct {
	Kind      ListKind
	Title     string
	Tracks    []domain.TrackRef
	Playlists []domain.Playlist
	// Markdown is the raw help text for ListHelp
	Markdown string
}

// Len returns the number of selectable entries
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	switch l.Kind {
	case ListTracks:
		return len(l.Tracks)
	case ListPlaylists:
		return len(l.Playlists)
	}
	return 0
}

// View is what a command may read from the dashboard when it is submitted
type View struct {
	Snapshot *domain.PlaybackSnapshot
	List     *List
	Target   *domain.Playlist
}

// ResultMsg reports a finished command back to the event loop
type ResultMsg struct {
	Command ID
	// Status is the text for the status line on success
	Status string
	Err    error
	// List replaces the list panel when non-nil
	List *List
	// Target replaces the target playlist when non-nil
	Target *domain.Playlist
	// Refresh asks the loop for an immediate snapshot fetch
	Refresh bool
}

// Settings are the router options taken from the application config
type Settings struct {
	Timeout     time.Duration
	SearchLimit int
}

// Router turns submitted lines into commands. It holds no state between submits.
type Router struct {
	logger      *zap.Logger
	service     domain.PlaybackService
	timeout     time.Duration
	searchLimit int
}

// NewRouter creates a new input router
func NewRouter(logger *zap.Logger, service domain.PlaybackService, settings Settings) *Router {
	r := &Router{logger: logger, service: service}
	r.Apply(settings)
	return r
}

// Apply updates the router options
func (r *Router) Apply(settings Settings) {
	r.timeout = settings.Timeout
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	r.searchLimit = settings.SearchLimit
	if r.searchLimit <= 0 {
		r.searchLimit = 5
	}
}

// Submit parses raw and returns the command to run, or nil for a blank line.
// Invalid input is reported through a ResultMsg like any other failure.
func (r *Router) Submit(raw string, view View) tea.Cmd {
	in, err := Parse(raw)
	if errors.Is(err, ErrEmpty) {
		return nil
	}
	if err != nil {
		r.logger.Debug("Rejected input", zap.String("verb", in.Verb))
		return result(ResultMsg{Command: Unknown, Err: err})
	}

	r.logger.Debug("Dispatching command", zap.Stringer("command", in.ID), zap.String("args", in.Args))
	return r.Dispatch(in, view)
}

// Dispatch runs a parsed command
func (r *Router) Dispatch(in Input, view View) tea.Cmd {
	switch in.ID {
	case Quit:
		return tea.Quit
	case Help:
		return result(ResultMsg{
			Command: Help,
			Status:  "help",
			List:    &List{Kind: ListHelp, Title: "Help", Markdown: HelpMarkdown()},
		})
	case Show:
		return result(show(view))
	}

	action, err := r.action(in, view)
	if err != nil {
		return result(ResultMsg{Command: in.ID, Err: err})
	}

	service, timeout, logger := r.service, r.timeout, r.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := action(ctx, service)
		msg.Command = in.ID
		if msg.Err != nil {
			logger.Warn("Command failed", zap.Stringer("command", in.ID), zap.Error(msg.Err))
		}
		return msg
	}
}

type action func(ctx context.Context, svc domain.PlaybackService) ResultMsg

// action validates the arguments on the loop and returns the part that talks to the service
func (r *Router) action(in Input, view View) (action, error) {
	switch in.ID {
	case Toggle:
		playing := view.Snapshot != nil && view.Snapshot.IsPlaying
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			if playing {
				return done(svc.Pause(ctx), "paused")
			}
			return done(svc.Play(ctx), "resumed")
		}, nil

	case Play:
		if in.Args == "" {
			return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
				return done(svc.Play(ctx), "resumed")
			}, nil
		}
		n, err := entryIndex(in.Args, view.List)
		if err != nil {
			return nil, err
		}
		if view.List.Kind == ListPlaylists {
			pl := view.List.Playlists[n]
			return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
				return done(svc.PlayPlaylist(ctx, pl.URI), "playing playlist "+pl.Name)
			}, nil
		}
		track := view.List.Tracks[n]
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.PlayTrack(ctx, track.URI), "playing "+track.Name)
		}, nil

	case Next:
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.Next(ctx), "next track")
		}, nil

	case Previous:
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.Previous(ctx), "previous track")
		}, nil

	case Volume:
		percent, err := strconv.Atoi(in.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: volume <0-100>", ErrUsage)
		}
		percent = ClampVolume(percent)
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.SetVolume(ctx, percent), fmt.Sprintf("volume %d%%", percent))
		}, nil

	case Shuffle:
		on, err := shuffleState(in.Args, view.Snapshot)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.SetShuffle(ctx, on), "shuffle "+onOff(on))
		}, nil

	case Repeat:
		mode, err := repeatMode(in.Args, view.Snapshot)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			return done(svc.SetRepeat(ctx, mode), "repeat "+string(mode))
		}, nil

	case Search:
		if in.Args == "" {
			return nil, fmt.Errorf("%w: search <query>", ErrUsage)
		}
		query, limit := in.Args, r.searchLimit
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			tracks, err := svc.Search(ctx, query, limit)
			if err != nil {
				return ResultMsg{Err: err}
			}
			return ResultMsg{
				Status: fmt.Sprintf("%d results for %q", len(tracks), query),
				List:   &List{Kind: ListTracks, Title: "Search: " + query, Tracks: tracks},
			}
		}, nil

	case Queue:
		track, err := trackEntry(in.Args, view.List)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			msg := done(svc.AddToQueue(ctx, track.URI), "queued "+track.Name)
			msg.Refresh = false
			return msg
		}, nil

	case Playlists:
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			pls, err := svc.ListPlaylists(ctx)
			if err != nil {
				return ResultMsg{Err: err}
			}
			return ResultMsg{
				Status: fmt.Sprintf("%d playlists", len(pls)),
				List:   &List{Kind: ListPlaylists, Title: "Playlists", Playlists: pls},
			}
		}, nil

	case Open:
		n, err := entryIndex(in.Args, view.List)
		if err != nil {
			return nil, err
		}
		if view.List.Kind != ListPlaylists {
			return nil, fmt.Errorf("%w: open needs a playlist list (use playlists)", ErrUsage)
		}
		pl := view.List.Playlists[n]
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			tracks, err := svc.PlaylistTracks(ctx, pl.ID)
			if err != nil {
				return ResultMsg{Err: err}
			}
			return ResultMsg{
				Status: fmt.Sprintf("opened %s (%d tracks)", pl.Name, len(tracks)),
				List:   &List{Kind: ListTracks, Title: pl.Name, Tracks: tracks},
				Target: &pl,
			}
		}, nil

	case Create:
		if in.Args == "" {
			return nil, fmt.Errorf("%w: create <name>", ErrUsage)
		}
		name := in.Args
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			pl, err := svc.CreatePlaylist(ctx, name, "", false)
			if err != nil {
				return ResultMsg{Err: err}
			}
			return ResultMsg{Status: "created playlist " + pl.Name, Target: &pl}
		}, nil

	case Save, Remove:
		if view.Target == nil {
			return nil, ErrNoTarget
		}
		track, err := trackEntry(in.Args, view.List)
		if err != nil {
			return nil, err
		}
		target := *view.Target
		if in.ID == Save {
			return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
				err := svc.AddTrackToPlaylist(ctx, target.ID, track.URI)
				return ResultMsg{Err: err, Status: fmt.Sprintf("saved %s to %s", track.Name, target.Name)}
			}, nil
		}
		return func(ctx context.Context, svc domain.PlaybackService) ResultMsg {
			err := svc.RemoveTrackFromPlaylist(ctx, target.ID, track.URI)
			return ResultMsg{Err: err, Status: fmt.Sprintf("removed %s from %s", track.Name, target.Name)}
		}, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownCommand, in.Verb)
}

// done builds the result of a playback command, which always changes the snapshot
func done(err error, status string) ResultMsg {
	if err != nil {
		return ResultMsg{Err: err}
	}
	return ResultMsg{Status: status, Refresh: true}
}

func result(msg ResultMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func show(view View) ResultMsg {
	s := view.Snapshot
	if s == nil {
		return ResultMsg{Command: Show, Err: ErrNothingPlaying}
	}
	line := s.Title
	if len(s.Artists) > 0 {
		line += " - " + strings.Join(s.Artists, ", ")
	}
	return ResultMsg{
		Command: Show,
		Status:  fmt.Sprintf("now playing: %s (%s / %s)", line, FormatDuration(s.ProgressMs), FormatDuration(s.DurationMs)),
	}
}

// ClampVolume limits a volume percentage to 0..100
func ClampVolume(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

func shuffleState(arg string, snap *domain.PlaybackSnapshot) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	case "":
		if snap == nil {
			return false, ErrNothingPlaying
		}
		return !snap.Shuffle, nil
	}
	return false, fmt.Errorf("%w: shuffle [on|off]", ErrUsage)
}

func repeatMode(arg string, snap *domain.PlaybackSnapshot) (domain.RepeatMode, error) {
	if arg == "" {
		if snap == nil {
			return "", ErrNothingPlaying
		}
		return snap.Repeat.Next(), nil
	}
	mode, ok := domain.ParseRepeatMode(strings.ToLower(arg))
	if !ok {
		return "", fmt.Errorf("%w: repeat [off|context|track]", ErrUsage)
	}
	return mode, nil
}

// entryIndex converts a 1-based entry number of the list panel to an index
func entryIndex(arg string, list *List) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: expected an entry number, got %q", ErrUsage, arg)
	}
	if n < 1 || n > list.Len() {
		return 0, fmt.Errorf("%w: %d (list has %d entries)", ErrNoEntry, n, list.Len())
	}
	return n - 1, nil
}

func trackEntry(arg string, list *List) (domain.TrackRef, error) {
	n, err := entryIndex(arg, list)
	if err != nil {
		return domain.TrackRef{}, err
	}
	if list.Kind != ListTracks {
		return domain.TrackRef{}, fmt.Errorf("%w: entry %d is not a track", ErrUsage, n+1)
	}
	return list.Tracks[n], nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

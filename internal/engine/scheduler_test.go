package engine

import (
	"context"
	"errors"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/genricoloni/spotui/internal/domain"
	"github.com/genricoloni/spotui/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fakeFetcher returns canned bytes or an error and counts calls
type fakeFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	return f.data, f.err
}

// fakeRenderer fills the grid with 'x', or '?' when there is no data
type fakeRenderer struct {
	calls atomic.Int32
}

func (r *fakeRenderer) Render(data []byte, w, h int) (domain.GlyphGrid, error) {
	r.calls.Add(1)
	ch := 'x'
	var err error
	if len(data) == 0 {
		ch = '?'
		err = errors.New("no data")
	}
	rows := make([][]domain.Glyph, h)
	for y := range rows {
		rows[y] = make([]domain.Glyph, w)
		for x := range rows[y] {
			rows[y][x] = domain.Glyph{Char: ch, Color: color.RGBA{A: 255}}
		}
	}
	return domain.NewGlyphGrid(rows), err
}

func newTestScheduler(t *testing.T, svc domain.PlaybackService, f *fakeFetcher, r *fakeRenderer) *Scheduler {
	t.Helper()
	return NewScheduler(zap.NewNop(), svc, f, r, Settings{FetchTimeout: time.Second, ArtEnabled: true})
}

func snapshot(title, url string) *domain.PlaybackSnapshot {
	return &domain.PlaybackSnapshot{Title: title, Artists: []string{"Artist"}, AlbumImageURL: url, DurationMs: 1000}
}

func TestApplySnapshot_DiscardsStaleResults(t *testing.T) {
	tests := []struct {
		name      string
		order     []int // indices of the issued fetches, in delivery order
		wantTitle string
	}{
		{name: "in order", order: []int{0, 1}, wantTitle: "second"},
		{name: "older arrives last", order: []int{1, 0}, wantTitle: "second"},
		{name: "three out of order", order: []int{2, 0, 1}, wantTitle: "third"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockPlaybackService(ctrl)

			titles := []string{"first", "second", "third"}[:len(tt.order)]
			call := 0
			svc.EXPECT().CurrentSnapshot(gomock.Any()).
				DoAndReturn(func(context.Context) (*domain.PlaybackSnapshot, error) {
					snap := snapshot(titles[call], "")
					call++
					return snap, nil
				}).Times(len(tt.order))

			s := newTestScheduler(t, svc, &fakeFetcher{}, &fakeRenderer{})
			var msgs []SnapshotMsg
			for range tt.order {
				msgs = append(msgs, s.Fetch()().(SnapshotMsg))
			}

			st := &State{}
			for _, i := range tt.order {
				s.ApplySnapshot(st, msgs[i])
			}

			if st.Snapshot == nil || st.Snapshot.Title != tt.wantTitle {
				t.Fatalf("expected %q to be displayed, got %+v", tt.wantTitle, st.Snapshot)
			}
			if s.Outstanding() != 0 {
				t.Errorf("expected no outstanding fetches, got %d", s.Outstanding())
			}
		})
	}
}

func TestApplySnapshot_Failures(t *testing.T) {
	fetchErr := domain.NewServiceError("snapshot", domain.KindNetwork, errors.New("connection refused"))

	t.Run("first failure marks unavailable", func(t *testing.T) {
		s := newTestScheduler(t, nil, &fakeFetcher{}, &fakeRenderer{})
		st := &State{}

		s.ApplySnapshot(st, SnapshotMsg{Token: 1, Err: fetchErr})

		if !st.Unavailable {
			t.Error("expected state to be unavailable")
		}
		if st.Snapshot != nil {
			t.Error("expected no snapshot")
		}
		if st.LastError == "" {
			t.Error("expected last error to be recorded")
		}
	})

	t.Run("failure keeps previous snapshot", func(t *testing.T) {
		s := newTestScheduler(t, nil, &fakeFetcher{}, &fakeRenderer{})
		st := &State{}

		s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("kept", "")})
		s.ApplySnapshot(st, SnapshotMsg{Token: 2, Err: fetchErr})

		if st.Snapshot == nil || st.Snapshot.Title != "kept" {
			t.Fatalf("expected previous snapshot to survive, got %+v", st.Snapshot)
		}
		if st.Unavailable {
			t.Error("state must not become unavailable once a snapshot was obtained")
		}
	})

	t.Run("success clears error", func(t *testing.T) {
		s := newTestScheduler(t, nil, &fakeFetcher{}, &fakeRenderer{})
		st := &State{}

		s.ApplySnapshot(st, SnapshotMsg{Token: 1, Err: fetchErr})
		s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("back", "")})

		if st.Unavailable || st.LastError != "" {
			t.Errorf("expected recovery, got unavailable=%v err=%q", st.Unavailable, st.LastError)
		}
	})
}

func TestApplySnapshot_Idle(t *testing.T) {
	s := newTestScheduler(t, nil, &fakeFetcher{}, &fakeRenderer{})
	s.ResizeArt(&State{}, 4, 2)
	st := &State{}

	s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: nil})

	if !st.Idle {
		t.Error("expected idle state")
	}
	if st.Unavailable {
		t.Error("idle is not unavailable")
	}
	if !st.Art.Empty() {
		t.Error("expected no artwork while idle")
	}
}

func TestArtwork_FetchOnceAndCache(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("image")}
	renderer := &fakeRenderer{}
	s := newTestScheduler(t, nil, fetcher, renderer)
	st := &State{}
	s.ResizeArt(st, 4, 2)

	cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/1")})
	if cmd == nil {
		t.Fatal("expected an artwork command")
	}

	// a second snapshot while the first fetch is in flight must not fetch again
	if again := s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("a", "http://img/1")}); again != nil {
		t.Fatal("expected no duplicate fetch for an in-flight url")
	}

	s.ApplyArtwork(st, cmd().(ArtworkMsg))
	if st.ArtURL != "http://img/1" || st.ArtFailed {
		t.Fatalf("unexpected art state url=%q failed=%v", st.ArtURL, st.ArtFailed)
	}
	if got := st.Art.String(); got != "xxxx\nxxxx" {
		t.Errorf("unexpected grid %q", got)
	}

	if cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 3, Snapshot: snapshot("a", "http://img/1")}); cmd != nil {
		t.Error("expected rendered url to be reused")
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls.Load())
	}
}

func TestArtwork_TimeoutShowsPlaceholderAndRetries(t *testing.T) {
	fetcher := &fakeFetcher{err: context.DeadlineExceeded}
	s := newTestScheduler(t, nil, fetcher, &fakeRenderer{})
	st := &State{}
	s.ResizeArt(st, 3, 1)

	cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/slow")})
	if cmd == nil {
		t.Fatal("expected an artwork command")
	}
	msg := cmd().(ArtworkMsg)
	if !errors.Is(msg.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", msg.Err)
	}
	s.ApplyArtwork(st, msg)

	if !st.ArtFailed {
		t.Error("expected placeholder state")
	}
	if got := st.Art.String(); got != "???" {
		t.Errorf("expected placeholder grid, got %q", got)
	}
	if st.Snapshot.Title != "a" {
		t.Error("text state must be unaffected by art failure")
	}

	fetcher.err = nil
	fetcher.data = []byte("image")
	retry := s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("a", "http://img/slow")})
	if retry == nil {
		t.Fatal("expected the next snapshot to retry the artwork fetch")
	}
	s.ApplyArtwork(st, retry().(ArtworkMsg))
	if st.ArtFailed || st.Art.String() != "xxx" {
		t.Errorf("expected rendered art after retry, got failed=%v grid=%q", st.ArtFailed, st.Art.String())
	}
}

func TestArtwork_DiscardsPreviousTrack(t *testing.T) {
	s := newTestScheduler(t, nil, &fakeFetcher{data: []byte("image")}, &fakeRenderer{})
	st := &State{}
	s.ResizeArt(st, 2, 1)

	first := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/a")})
	second := s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("b", "http://img/b")})
	if first == nil || second == nil {
		t.Fatal("expected two artwork commands")
	}

	s.ApplyArtwork(st, second().(ArtworkMsg))
	s.ApplyArtwork(st, first().(ArtworkMsg))

	if st.ArtURL != "http://img/b" {
		t.Errorf("expected art of the current track, got %q", st.ArtURL)
	}
}

func TestResizeArt_RerendersFromCache(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("image")}
	renderer := &fakeRenderer{}
	s := newTestScheduler(t, nil, fetcher, renderer)
	st := &State{}
	s.ResizeArt(st, 2, 1)

	cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/a")})
	s.ApplyArtwork(st, cmd().(ArtworkMsg))

	if s.ResizeArt(st, 2, 1) != nil {
		t.Error("same size must not re-render")
	}

	resize := s.ResizeArt(st, 5, 2)
	if resize == nil {
		t.Fatal("expected a re-render command")
	}
	s.ApplyArtwork(st, resize().(ArtworkMsg))

	if st.Art.Width() != 5 || st.Art.Height() != 2 {
		t.Errorf("expected 5x2 grid, got %dx%d", st.Art.Width(), st.Art.Height())
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("resize must not refetch, got %d fetches", fetcher.calls.Load())
	}
	if w, h := s.ArtSize(); w != 5 || h != 2 {
		t.Errorf("ArtSize() = %d, %d", w, h)
	}
}

func TestResizeArt_DuringTrackChange(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("image")}
	s := newTestScheduler(t, nil, fetcher, &fakeRenderer{})
	st := &State{}
	s.ResizeArt(st, 2, 1)

	first := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/a")})
	s.ApplyArtwork(st, first().(ArtworkMsg))

	next := s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("b", "http://img/b")})
	if next == nil {
		t.Fatal("expected an artwork command for the new track")
	}
	resize := s.ResizeArt(st, 12, 6)
	if resize == nil {
		t.Fatal("expected a command for the new size")
	}

	s.ApplyArtwork(st, next().(ArtworkMsg))
	resized := resize().(ArtworkMsg)
	if resized.URL != "http://img/b" {
		t.Fatalf("resize rendered %q, want the current track", resized.URL)
	}
	s.ApplyArtwork(st, resized)

	if st.ArtURL != "http://img/b" || st.Art.Width() != 12 || st.Art.Height() != 6 {
		t.Errorf("expected 12x6 art for b, got %q %dx%d", st.ArtURL, st.Art.Width(), st.Art.Height())
	}
	for token := FetchToken(3); token <= 5; token++ {
		if cmd := s.ApplySnapshot(st, SnapshotMsg{Token: token, Snapshot: snapshot("b", "http://img/b")}); cmd != nil {
			t.Errorf("token %d: art for b is already rendered", token)
		}
	}
}

func TestArtwork_SupersededResultEndsFetch(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("image")}
	s := newTestScheduler(t, nil, fetcher, &fakeRenderer{})
	st := &State{}
	s.ResizeArt(st, 2, 1)

	first := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/a")})
	s.ApplyArtwork(st, first().(ArtworkMsg))

	// b starts loading, then playback returns to a before b arrives
	b := s.ApplySnapshot(st, SnapshotMsg{Token: 2, Snapshot: snapshot("b", "http://img/b")})
	if cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 3, Snapshot: snapshot("a", "http://img/a")}); cmd != nil {
		t.Fatal("art for a is already rendered")
	}
	resize := s.ResizeArt(st, 4, 2)
	if resize == nil {
		t.Fatal("expected a re-render from cache")
	}

	s.ApplyArtwork(st, b().(ArtworkMsg))
	s.ApplyArtwork(st, resize().(ArtworkMsg))
	if st.ArtURL != "http://img/a" || st.Art.Width() != 4 {
		t.Errorf("expected 4x2 art for a, got %q width %d", st.ArtURL, st.Art.Width())
	}

	again := s.ApplySnapshot(st, SnapshotMsg{Token: 4, Snapshot: snapshot("b", "http://img/b")})
	if again == nil {
		t.Fatal("b must be fetched again once its earlier result was dropped")
	}
	s.ApplyArtwork(st, again().(ArtworkMsg))
	if st.ArtURL != "http://img/b" {
		t.Errorf("expected art for b, got %q", st.ArtURL)
	}
	if got := fetcher.calls.Load(); got != 3 {
		t.Errorf("expected 3 fetches, got %d", got)
	}
}

func TestArtwork_Disabled(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("image")}
	s := NewScheduler(zap.NewNop(), nil, fetcher, &fakeRenderer{}, Settings{ArtEnabled: false})
	st := &State{}
	s.ResizeArt(st, 4, 2)

	if cmd := s.ApplySnapshot(st, SnapshotMsg{Token: 1, Snapshot: snapshot("a", "http://img/a")}); cmd != nil {
		t.Error("expected no artwork command when art is disabled")
	}
}

func TestSetFetchTimeout_Default(t *testing.T) {
	s := NewScheduler(zap.NewNop(), nil, nil, nil, Settings{})
	if s.timeout != defaultFetchTimeout {
		t.Errorf("expected default timeout, got %s", s.timeout)
	}
	s.SetFetchTimeout(5 * time.Second)
	if s.timeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", s.timeout)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/genricoloni/spotui/internal/command"
	"github.com/genricoloni/spotui/internal/domain"
	"github.com/genricoloni/spotui/internal/layout"
	"github.com/genricoloni/spotui/internal/processor"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// borderSize is the number of cells a rounded border takes on each axis
const borderSize = 2

var logo = []string{
	"┌─┐┌─┐┌─┐┌┬┐┬ ┬┬",
	"└─┐├─┘│ │ │ │ ││",
	"└─┘┴  └─┘ ┴ └─┘┴",
}

var (
	accent = lipgloss.Color("#1DB954")
	muted  = lipgloss.Color("#808080")
	failed = lipgloss.Color("#E5534B")

	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle    = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Foreground(failed)
)

// inner returns the content size of a bordered panel
func inner(r layout.Rect) (int, int) {
	return max(r.W-borderSize, 0), max(r.H-borderSize, 0)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "starting spotui..."
	}

	var rows []string
	for _, band := range layout.Bands(m.placements) {
		var cols []string
		for _, col := range band.Columns {
			var stack []string
			for _, p := range col.Panels {
				stack = append(stack, m.panel(p.Panel))
			}
			cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, stack...))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// panel renders one bordered panel at its frame size
func (m Model) panel(p layout.Panel) string {
	r := m.boxes[p]
	w, h := inner(r)

	var body string
	switch p {
	case layout.PanelTitle:
		body = m.titleBody(w, h)
	case layout.PanelImage:
		body = m.imageBody(w, h)
	case layout.PanelList:
		body = m.listBody(w)
	case layout.PanelSong:
		body = m.songBody(w)
	case layout.PanelCommand:
		body = m.input.View()
	}

	style := panelStyle
	if p == layout.PanelCommand {
		style = style.BorderForeground(accent)
	}
	return style.Width(w).Height(h).Render(fit(body, w, h))
}

// fit cuts content to at most h lines of w cells, keeping escape sequences intact
func fit(content string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for i, line := range lines {
		lines[i] = truncate.String(line, uint(w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) titleBody(w, h int) string {
	sub := dimStyle.Render(runewidth.Truncate("now playing · "+m.backend, w, "…"))
	body := headerStyle.Render(strings.Join(logo, "\n")) + "\n" + sub
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) imageBody(w, h int) string {
	st := m.state
	var body string
	switch {
	case !st.Art.Empty():
		body = processor.ANSI(st.Art, m.profile)
	case st.Snapshot.HasArtwork():
		body = dimStyle.Render("loading artwork…")
	default:
		body = dimStyle.Render("no artwork")
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) listBody(w int) string {
	var b strings.Builder
	if m.target != nil {
		b.WriteString(dimStyle.Render(runewidth.Truncate("target: "+m.target.Name, w, "…")))
		b.WriteString("\n")
	}

	l := m.list
	if l == nil || l.Kind == command.ListNone {
		b.WriteString(dimStyle.Render(wordwrap.String("search, playlists or help fill this panel", w)))
		return b.String()
	}
	if l.Kind == command.ListHelp {
		b.WriteString(m.help)
		return b.String()
	}

	b.WriteString(headerStyle.Render(runewidth.Truncate(l.Title, w, "…")))
	if l.Len() == 0 {
		b.WriteString("\n" + dimStyle.Render("nothing found"))
		return b.String()
	}
	for i := 0; i < l.Len(); i++ {
		var line string
		switch l.Kind {
		case command.ListTracks:
			t := l.Tracks[i]
			line = fmt.Sprintf("%2d. %s", i+1, t.Name)
			if len(t.Artists) > 0 {
				line += " - " + strings.Join(t.Artists, ", ")
			}
		case command.ListPlaylists:
			pl := l.Playlists[i]
			line = fmt.Sprintf("%2d. %s (%d)", i+1, pl.Name, pl.TotalTracks)
		}
		b.WriteString("\n" + runewidth.Truncate(line, w, "…"))
	}
	return b.String()
}

func (m Model) songBody(w int) string {
	var lines []string
	st := m.state
	s := st.Snapshot

	switch {
	case st.Unavailable:
		lines = append(lines, errorStyle.Render("service unavailable"), dimStyle.Render(wordwrap.String(st.LastError, w)))
	case s == nil && !st.Obtained:
		lines = append(lines, dimStyle.Render("connecting…"))
	case s == nil:
		lines = append(lines, dimStyle.Render("nothing playing"))
	default:
		lines = append(lines, headerStyle.Render(runewidth.Truncate(s.Title, w, "…")))
		if len(s.Artists) > 0 || s.Album != "" {
			lines = append(lines, runewidth.Truncate(artistLine(s), w, "…"))
		}
		lines = append(lines, progressLine(s, w), dimStyle.Render(runewidth.Truncate(flags(s), w, "…")))
		if st.LastError != "" {
			lines = append(lines, errorStyle.Render(runewidth.Truncate("stale: "+st.LastError, w, "…")))
		}
	}

	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errorStyle
		}
		lines = append(lines, style.Render(wordwrap.String(m.status, w)))
	}
	return strings.Join(lines, "\n")
}

func artistLine(s *domain.PlaybackSnapshot) string {
	line := strings.Join(s.Artists, ", ")
	if s.Album != "" {
		if line != "" {
			line += " · "
		}
		line += s.Album
	}
	return line
}

// progressLine renders "elapsed [bar] -remaining"
func progressLine(s *domain.PlaybackSnapshot, w int) string {
	progress := min(max(s.ProgressMs, 0), max(s.DurationMs, 0))
	elapsed := command.FormatDuration(progress)
	remaining := "-" + command.FormatDuration(s.DurationMs-progress)

	barW := w - len(elapsed) - len(remaining) - 2
	if barW < 4 {
		return elapsed + " / " + command.FormatDuration(s.DurationMs)
	}
	filled := 0
	if s.DurationMs > 0 {
		filled = int(progress * int64(barW) / s.DurationMs)
	}
	bar := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("━", filled)) +
		dimStyle.Render(strings.Repeat("─", barW-filled))
	return elapsed + " " + bar + " " + remaining
}

func flags(s *domain.PlaybackSnapshot) string {
	parts := []string{"⏸ paused"}
	if s.IsPlaying {
		parts[0] = "▶ playing"
	}
	if s.Shuffle {
		parts = append(parts, "shuffle")
	}
	if s.Repeat != domain.RepeatOff && s.Repeat != "" {
		parts = append(parts, "repeat "+string(s.Repeat))
	}
	if s.Volume >= 0 {
		parts = append(parts, fmt.Sprintf("vol %d%%", s.Volume))
	}
	if s.Device != "" {
		parts = append(parts, "on "+s.Device)
	}
	return strings.Join(parts, "  ")
}

// Package tui is the dashboard event loop.
//
// Model.Update is the only place dashboard state changes. Fetches, renders and
// commands run as tea.Cmd closures and report back as messages, so no handler
// blocks and no lock guards the state.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/spotui/internal/command"
	"github.com/genricoloni/spotui/internal/config"
	"github.com/genricoloni/spotui/internal/domain"
	"github.com/genricoloni/spotui/internal/engine"
	"github.com/genricoloni/spotui/internal/layout"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

const defaultInterval = time.Second

// SubmitMsg submits one line as if it was typed and followed by Enter
type SubmitMsg struct {
	Line string
}

// ChangedMsg is sent when the playback service pushes a change hint
type ChangedMsg struct{}

// ConfigReloadedMsg carries the settings of a reloaded configuration file
type ConfigReloadedMsg struct {
	Settings Settings
}

// Settings are the options that can change while the dashboard runs
type Settings struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	SearchLimit     int
	Narrow          layout.NarrowTable
}

// SettingsFrom extracts the runtime settings of a configuration
func SettingsFrom(cfg *config.AppConfig) Settings {
	return Settings{
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.FetchTimeout,
		SearchLimit:     cfg.SearchLimit,
		Narrow:          layout.ParseNarrowTable(cfg.Layout.Narrow),
	}
}

// Options configure a new Model
type Options struct {
	Settings Settings
	// Profile is the color profile used for album art
	Profile termenv.Profile
	// HelpStyle is the glamour style used for the help panel
	HelpStyle string
	// Backend is shown under the logo
	Backend string
}

// Model is the bubbletea model of the dashboard
type Model struct {
	logger    *zap.Logger
	scheduler *engine.Scheduler
	router    *command.Router
	changes   <-chan struct{}

	state    engine.State
	interval time.Duration
	narrow   layout.NarrowTable

	width, height int
	geometry      layout.Geometry
	placements    []layout.Placement
	boxes         map[layout.Panel]layout.Rect

	input  textinput.Model
	list   *command.List
	help   string
	target *domain.Playlist

	status    string
	statusErr bool

	profile   termenv.Profile
	helpStyle string
	backend   string
}

// New creates the dashboard model. changes may be nil for services that do
// not push change hints.
func New(
	logger *zap.Logger,
	scheduler *engine.Scheduler,
	router *command.Router,
	changes <-chan struct{},
	opts Options,
) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type a command, help lists them"
	ti.CharLimit = 256
	ti.Focus()

	interval := opts.Settings.RefreshInterval
	if interval <= 0 {
		interval = defaultInterval
	}
	helpStyle := opts.HelpStyle
	if helpStyle == "" {
		helpStyle = "dark"
	}

	return Model{
		logger:    logger,
		scheduler: scheduler,
		router:    router,
		changes:   changes,
		interval:  interval,
		narrow:    opts.Settings.Narrow,
		geometry:  layout.ComputeWith(opts.Settings.Narrow, 0, 0),
		boxes:     map[layout.Panel]layout.Rect{},
		input:     ti,
		profile:   opts.Profile,
		helpStyle: helpStyle,
		backend:   opts.Backend,
	}
}

// Init fetches the first snapshot and starts the refresh tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.scheduler.Fetch(),
		engine.NextTick(m.interval),
		m.listen(),
	)
}

// listen waits for the next change hint. It yields no message once the
// channel is closed.
func (m Model) listen() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engine.TickMsg:
		return m, tea.Batch(m.scheduler.Fetch(), engine.NextTick(m.interval))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.relayout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			return m.submit(line)
		case tea.KeyEsc:
			m.input.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case SubmitMsg:
		return m.submit(msg.Line)

	case engine.SnapshotMsg:
		return m, m.scheduler.ApplySnapshot(&m.state, msg)

	case engine.ArtworkMsg:
		m.scheduler.ApplyArtwork(&m.state, msg)
		return m, nil

	case command.ResultMsg:
		return m.applyResult(msg)

	case ChangedMsg:
		return m, tea.Batch(m.scheduler.Fetch(), m.listen())

	case ConfigReloadedMsg:
		return m.applySettings(msg.Settings)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	view := command.View{Snapshot: m.state.Snapshot, List: m.list, Target: m.target}
	return m, m.router.Submit(line, view)
}

func (m Model) applyResult(msg command.ResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = command.Report(msg.Command, msg.Err)
		m.statusErr = true
		return m, nil
	}

	m.status, m.statusErr = msg.Status, false
	if msg.List != nil {
		m.list = msg.List
		m.renderHelp()
	}
	if msg.Target != nil {
		m.target = msg.Target
	}
	if msg.Refresh {
		return m, m.scheduler.Fetch()
	}
	return m, nil
}

func (m Model) applySettings(s Settings) (tea.Model, tea.Cmd) {
	if s.RefreshInterval > 0 {
		m.interval = s.RefreshInterval
	}
	m.scheduler.SetFetchTimeout(s.FetchTimeout)
	m.router.Apply(command.Settings{SearchLimit: s.SearchLimit})

	m.logger.Info("Applied reloaded settings",
		zap.Duration("refreshInterval", m.interval),
		zap.Int("searchLimit", s.SearchLimit))

	if s.Narrow == m.narrow {
		return m, nil
	}
	m.narrow = s.Narrow
	return m, m.relayout()
}

// relayout recomputes the geometry and panel rectangles for the current size
func (m *Model) relayout() tea.Cmd {
	m.geometry = layout.ComputeWith(m.narrow, m.width, m.height)
	m.placements = layout.Place(m.geometry)

	m.boxes = make(map[layout.Panel]layout.Rect, len(m.placements))
	for _, box := range layout.Frame(m.placements, m.width, m.height) {
		m.boxes[box.Panel] = box.Rect
	}

	if r, ok := m.boxes[layout.PanelCommand]; ok {
		m.input.Width = max(r.W-borderSize-len(m.input.Prompt)-1, 1)
	}
	m.renderHelp()

	m.logger.Debug("Layout computed",
		zap.Int("width", m.width),
		zap.Int("height", m.height),
		zap.Stringer("breakpoint", m.geometry.Breakpoint))

	r := m.boxes[layout.PanelImage]
	w, h := inner(r)
	return m.scheduler.ResizeArt(&m.state, w, h)
}

// renderHelp prepares the help panel text for the current list width
func (m *Model) renderHelp() {
	m.help = ""
	if m.list == nil || m.list.Kind != command.ListHelp {
		return
	}
	w, _ := inner(m.boxes[layout.PanelList])
	out, err := command.RenderHelp(m.list.Markdown, w, m.helpStyle)
	if err != nil {
		m.logger.Warn("Showing raw help text", zap.Error(err))
	}
	m.help = out
}

// Geometry returns the current panel geometry
func (m Model) Geometry() layout.Geometry {
	return m.geometry
}

// State returns the current dashboard state
func (m Model) State() engine.State {
	return m.state
}

// Status returns the status line and whether it reports an error
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

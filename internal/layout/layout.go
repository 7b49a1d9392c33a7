// Package layout maps terminal geometry onto the five dashboard panels.
//
// The dashboard is a 9 column grid. Compute classifies the terminal width into
// a Breakpoint and returns the span table for that breakpoint; Place and Frame
// turn spans into concrete cell rectangles for rendering.
package layout

// Grid bounds of the reference layout
const (
	GridColumns = 9
	GridRows    = 6
)

// Breakpoint thresholds, width-primary
const (
	// NarrowBelow is the first width that is no longer narrow
	NarrowBelow = 100
	// WideAbove is the last width that is not yet wide
	WideAbove = 150
)

// Breakpoint classifies a terminal size
type Breakpoint int

const (
	// Narrow stacks every visible panel full width and hides the title
	Narrow Breakpoint = iota
	// Medium uses the same table as Wide
	Medium
	// Wide shows all five panels side by side
	Wide
)

// String returns the breakpoint name
func (b Breakpoint) String() string {
	switch b {
	case Narrow:
		return "narrow"
	case Medium:
		return "medium"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// Classify returns the breakpoint for a terminal size. Only the width matters.
func Classify(width, height int) Breakpoint {
	switch {
	case width < NarrowBelow:
		return Narrow
	case width > WideAbove:
		return Wide
	default:
		return Medium
	}
}

// Panel identifies one of the five fixed panels
type Panel int

const (
	PanelTitle Panel = iota
	PanelImage
	PanelList
	PanelSong
	PanelCommand
)

// Panels lists every panel in placement order
var Panels = [...]Panel{PanelTitle, PanelImage, PanelList, PanelSong, PanelCommand}

// String returns the panel name
func (p Panel) String() string {
	switch p {
	case PanelTitle:
		return "title"
	case PanelImage:
		return "image"
	case PanelList:
		return "list"
	case PanelSong:
		return "song"
	case PanelCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Span is the visibility and grid extent of one panel
type Span struct {
	Visible    bool
	ColumnSpan int
	RowSpan    int
}

// Geometry is the span of every panel for one terminal size
type Geometry struct {
	Breakpoint Breakpoint
	Spans      [len(Panels)]Span
}

// Of returns the span of panel p
func (g Geometry) Of(p Panel) Span {
	return g.Spans[p]
}

// NarrowTable selects the row spans used below the narrow breakpoint
type NarrowTable int

const (
	// NarrowArt gives album art and the list most of the height
	NarrowArt NarrowTable = iota
	// NarrowPlain is the compact table for dashboards without art
	NarrowPlain
)

// ParseNarrowTable converts a config value; unknown values select NarrowArt
func ParseNarrowTable(s string) NarrowTable {
	if s == "plain" {
		return NarrowPlain
	}
	return NarrowArt
}

var (
	wideSpans = [len(Panels)]Span{
		PanelTitle:   {Visible: true, ColumnSpan: 3, RowSpan: 2},
		PanelImage:   {Visible: true, ColumnSpan: 6, RowSpan: 6},
		PanelList:    {Visible: true, ColumnSpan: 3, RowSpan: 6},
		PanelSong:    {Visible: true, ColumnSpan: 6, RowSpan: 2},
		PanelCommand: {Visible: true, ColumnSpan: 9, RowSpan: 1},
	}
	narrowArtSpans = [len(Panels)]Span{
		PanelTitle:   {},
		PanelImage:   {Visible: true, ColumnSpan: 9, RowSpan: 6},
		PanelList:    {Visible: true, ColumnSpan: 9, RowSpan: 6},
		PanelSong:    {Visible: true, ColumnSpan: 9, RowSpan: 2},
		PanelCommand: {Visible: true, ColumnSpan: 9, RowSpan: 1},
	}
	narrowPlainSpans = [len(Panels)]Span{
		PanelTitle:   {},
		PanelImage:   {Visible: true, ColumnSpan: 9, RowSpan: 3},
		PanelList:    {Visible: true, ColumnSpan: 9, RowSpan: 2},
		PanelSong:    {Visible: true, ColumnSpan: 9, RowSpan: 2},
		PanelCommand: {Visible: true, ColumnSpan: 9, RowSpan: 2},
	}
)

// Compute returns the panel geometry for a terminal size using the NarrowArt table
func Compute(width, height int) Geometry {
	return ComputeWith(NarrowArt, width, height)
}

// ComputeWith returns the panel geometry for a terminal size.
// The result depends only on its arguments.
func ComputeWith(narrow NarrowTable, width, height int) Geometry {
	bp := Classify(width, height)
	g := Geometry{Breakpoint: bp}
	switch bp {
	case Narrow:
		if narrow == NarrowPlain {
			g.Spans = narrowPlainSpans
		} else {
			g.Spans = narrowArtSpans
		}
	default:
		g.Spans = wideSpans
	}
	return g
}

package domain

import (
	"image/color"
	"strings"
)

// Glyph is one character cell of rendered artwork
type Glyph struct {
	Char  rune
	Color color.RGBA
}

// GlyphGrid is a fixed-size grid of colored glyphs. It is immutable: the
// constructor copies its input and accessors never expose internal rows.
type GlyphGrid struct {
	rows  [][]Glyph
	width int
}

// NewGlyphGrid builds a grid from rows. Every row must have the same length;
// shorter rows are padded with blank glyphs, longer rows are cut.
func NewGlyphGrid(rows [][]Glyph) GlyphGrid {
	if len(rows) == 0 {
		return GlyphGrid{}
	}
	width := len(rows[0])
	copied := make([][]Glyph, len(rows))
	for i, row := range rows {
		r := make([]Glyph, width)
		n := copy(r, row)
		for j := n; j < width; j++ {
			r[j] = Glyph{Char: ' '}
		}
		copied[i] = r
	}
	return GlyphGrid{rows: copied, width: width}
}

// Width is the number of glyphs per row
func (g GlyphGrid) Width() int { return g.width }

// Height is the number of rows
func (g GlyphGrid) Height() int { return len(g.rows) }

// Empty reports whether the grid has no cells
func (g GlyphGrid) Empty() bool { return len(g.rows) == 0 || g.width == 0 }

// At returns the glyph in column x of row y
func (g GlyphGrid) At(x, y int) Glyph {
	return g.rows[y][x]
}

// Row returns a copy of row y
func (g GlyphGrid) Row(y int) []Glyph {
	out := make([]Glyph, g.width)
	copy(out, g.rows[y])
	return out
}

// String returns the glyphs without color, one line per row
func (g GlyphGrid) String() string {
	var sb strings.Builder
	for y, row := range g.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			sb.WriteRune(cell.Char)
		}
	}
	return sb.String()
}

package processor

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/genricoloni/spotui/internal/domain"
	"github.com/muesli/termenv"
)

// ANSI renders the grid as colored terminal text for the given color profile.
// Consecutive glyphs of the same color share one escape sequence.
// The Ascii profile yields the plain glyphs.
func ANSI(g domain.GlyphGrid, profile termenv.Profile) string {
	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		styled := false
		var last color.RGBA
		for x := 0; x < g.Width(); x++ {
			cell := g.At(x, y)
			if x == 0 || cell.Color != last {
				if seq := profile.Color(hex(cell.Color)).Sequence(false); seq != "" {
					sb.WriteString(termenv.CSI + seq + "m")
					styled = true
				}
				last = cell.Color
			}
			sb.WriteRune(cell.Char)
		}
		if styled {
			sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		}
	}
	return sb.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/genricoloni/spotui/internal/domain"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

func TestGlyphProcessor_Render_Shape(t *testing.T) {
	tests := []struct {
		name          string
		imageData     []byte
		width         int
		height        int
		expectedError error
	}{
		{
			name:      "Success - Square JPEG",
			imageData: createTestJPEG(100, 100, color.RGBA{R: 255, G: 0, B: 0, A: 255}),
			width:     40,
			height:    20,
		},
		{
			name:      "Success - Wide PNG into tall grid",
			imageData: createTestPNG(300, 50, color.RGBA{R: 0, G: 255, B: 0, A: 255}),
			width:     7,
			height:    13,
		},
		{
			name:      "Edge Case - Very Small Image",
			imageData: createTestJPEG(1, 1, color.RGBA{R: 128, G: 128, B: 128, A: 255}),
			width:     64,
			height:    32,
		},
		{
			name:      "Edge Case - 1x1 Grid",
			imageData: createTestPNG(10, 10, color.RGBA{R: 10, G: 10, B: 10, A: 255}),
			width:     1,
			height:    1,
		},
		{
			name:          "Error - Invalid Image Data",
			imageData:     []byte("not-an-image"),
			width:         30,
			height:        10,
			expectedError: ErrDecode,
		},
		{
			name:          "Error - Empty Data",
			imageData:     []byte{},
			width:         5,
			height:        3,
			expectedError: ErrDecode,
		},
		{
			name:          "Error - Corrupted JPEG",
			imageData:     []byte{0xFF, 0xD8, 0xFF, 0x00, 0x00},
			width:         12,
			height:        6,
			expectedError: ErrDecode,
		},
		{
			name:          "Error - Truncated PNG",
			imageData:     createTestPNG(50, 50, color.RGBA{R: 1, G: 2, B: 3, A: 255})[:40],
			width:         8,
			height:        4,
			expectedError: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewGlyphProcessor(zap.NewNop())
			grid, err := p.Render(tt.imageData, tt.width, tt.height)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if grid.Height() != tt.height {
				t.Errorf("expected %d rows, got %d", tt.height, grid.Height())
			}
			for y := 0; y < grid.Height(); y++ {
				if n := len(grid.Row(y)); n != tt.width {
					t.Errorf("row %d: expected %d glyphs, got %d", y, tt.width, n)
				}
			}
		})
	}
}

func TestGlyphProcessor_Render_Colors(t *testing.T) {
	tests := []struct {
		name      string
		fill      color.RGBA
		wantGlyph rune
	}{
		{name: "Black maps to sparsest glyph", fill: color.RGBA{A: 255}, wantGlyph: ' '},
		{name: "White maps to densest glyph", fill: color.RGBA{R: 255, G: 255, B: 255, A: 255}, wantGlyph: '@'},
		{name: "Transparent is blended onto black", fill: color.RGBA{}, wantGlyph: ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewGlyphProcessor(zap.NewNop())
			grid, err := p.Render(createTestPNG(16, 16, tt.fill), 4, 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for y := 0; y < grid.Height(); y++ {
				for x := 0; x < grid.Width(); x++ {
					if got := grid.At(x, y).Char; got != tt.wantGlyph {
						t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, tt.wantGlyph)
					}
				}
			}
		})
	}
}

// TestGlyphProcessor_Render_ScanOrder checks that rows and columns follow the
// pixel layout: a white left half and a black bottom half stay where they are.
func TestGlyphProcessor_Render_ScanOrder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.NRGBA{A: 255}
			if x < 20 && y < 20 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}

	grid, err := NewGlyphProcessor(zap.NewNop()).Render(buf.Bytes(), 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	density := func(x, y int) int {
		return GlyphIndex(Luminance(grid.At(x, y).Color))
	}
	if got := density(0, 0); got < 7 {
		t.Errorf("top-left density = %d, want a dense glyph", got)
	}
	if got := density(3, 0); got > 2 {
		t.Errorf("top-right density = %d, want a sparse glyph", got)
	}
	if got := density(0, 3); got > 2 {
		t.Errorf("bottom-left density = %d, want a sparse glyph", got)
	}
	if got, want := grid.At(0, 0).Char, GlyphFor(Luminance(grid.At(0, 0).Color)); got != want {
		t.Errorf("top-left glyph = %q, want %q for its color", got, want)
	}
	if c := grid.At(0, 0).Color; c.R < 200 || c.G < 200 || c.B < 200 {
		t.Errorf("top-left color = %v, want near white", c)
	}
}

func TestGlyphIndex_Monotonic(t *testing.T) {
	if got := GlyphIndex(0); got != 0 {
		t.Errorf("GlyphIndex(0) = %d, want 0", got)
	}
	if got := GlyphIndex(255); got != 9 {
		t.Errorf("GlyphIndex(255) = %d, want 9", got)
	}
	if got := GlyphFor(0); got != ' ' {
		t.Errorf("GlyphFor(0) = %q, want ' '", got)
	}
	if got := GlyphFor(255); got != '@' {
		t.Errorf("GlyphFor(255) = %q, want '@'", got)
	}

	prev := GlyphIndex(0)
	for l := 1; l <= 255; l++ {
		idx := GlyphIndex(l)
		if idx < prev {
			t.Fatalf("GlyphIndex(%d) = %d < GlyphIndex(%d) = %d", l, idx, l-1, prev)
		}
		if idx != l*9/255 {
			t.Fatalf("GlyphIndex(%d) = %d, want %d", l, idx, l*9/255)
		}
		prev = idx
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want int
	}{
		{color.RGBA{}, 0},
		{color.RGBA{R: 255, G: 255, B: 255}, 255},
		{color.RGBA{R: 10, G: 20, B: 31}, 20},
		{color.RGBA{R: 255}, 85},
	}
	for _, tt := range tests {
		if got := Luminance(tt.c); got != tt.want {
			t.Errorf("Luminance(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   string
	}{
		{name: "Label centered", width: 14, height: 3, want: "              \n  no artwork  \n              "},
		{name: "Label truncated", width: 4, height: 1, want: "no a"},
		{name: "Degenerate", width: 0, height: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Fallback(tt.width, tt.height)
			if got := grid.String(); got != tt.want {
				t.Errorf("Fallback(%d,%d) = %q, want %q", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestANSI(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	grid := domain.NewGlyphGrid([][]domain.Glyph{
		{{Char: '@', Color: red}, {Char: '#', Color: red}, {Char: '.', Color: blue}},
		{{Char: ' ', Color: blue}, {Char: ':', Color: blue}, {Char: '=', Color: blue}},
	})

	if got := ANSI(grid, termenv.Ascii); got != "@#.\n :=" {
		t.Errorf("ANSI(Ascii) = %q", got)
	}

	colored := ANSI(grid, termenv.TrueColor)
	if !strings.Contains(colored, "38;2;255;0;0") {
		t.Errorf("expected a truecolor red sequence in %q", colored)
	}
	if n := strings.Count(colored, "38;2;255;0;0"); n != 1 {
		t.Errorf("expected red run to share one sequence, got %d", n)
	}
	if n := strings.Count(colored, "38;2;0;0;255"); n != 2 {
		t.Errorf("expected one blue sequence per row, got %d", n)
	}
}

// createTestJPEG generates a simple JPEG image for testing
func createTestJPEG(width, height int, col color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, col)
		}
	}

	buf := new(bytes.Buffer)
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80})
	if err != nil {
		panic("failed to create test JPEG: " + err.Error())
	}
	return buf.Bytes()
}

// createTestPNG generates a simple PNG image for testing; unlike JPEG it keeps exact colors and alpha
func createTestPNG(width, height int, col color.RGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A})
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		panic("failed to create test PNG: " + err.Error())
	}
	return buf.Bytes()
}

package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/spotui/internal/domain"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// aspectFactor is the width:height ratio of a terminal cell
	aspectFactor = 0.5
	// fallbackLabel is printed in the middle of the placeholder grid
	fallbackLabel = "no artwork"
)

// glyphRamp is ordered from sparsest to densest
var glyphRamp = []rune(" .:-=+*#%@")

// fallbackColor is used for the placeholder grid
var fallbackColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// ErrDecode is returned when the image bytes cannot be decoded
var ErrDecode = errors.New("failed to decode image")

// GlyphProcessor turns album art into colored text glyphs
type GlyphProcessor struct {
	logger *zap.Logger
	filter imaging.ResampleFilter
}

// NewGlyphProcessor creates a new glyph renderer
func NewGlyphProcessor(logger *zap.Logger) *GlyphProcessor {
	return &GlyphProcessor{
		logger: logger,
		filter: imaging.Lanczos,
	}
}

// Render converts image bytes into a grid of exactly height rows and width glyphs per row.
// On failure it returns the placeholder grid together with the cause.
func (p *GlyphProcessor) Render(imgData []byte, width, height int) (domain.GlyphGrid, error) {
	if width <= 0 || height <= 0 {
		return domain.GlyphGrid{}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return Fallback(width, height), fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return Fallback(width, height), fmt.Errorf("%w: invalid image dimensions: %dx%d", ErrDecode, bounds.Dx(), bounds.Dy())
	}

	// Cells are twice as tall as wide, so sample two pixel rows per text row
	pixelHeight := int(float64(height) / aspectFactor)
	p.logger.Debug("Resizing artwork",
		zap.Int("srcW", bounds.Dx()), zap.Int("srcH", bounds.Dy()),
		zap.Int("w", width), zap.Int("h", pixelHeight))
	resized := imaging.Resize(img, width, pixelHeight, p.filter)

	rowsPerCell := pixelHeight / height
	rows := make([][]domain.Glyph, height)
	for y := 0; y < height; y++ {
		row := make([]domain.Glyph, width)
		for x := 0; x < width; x++ {
			c := cellColor(resized, x, y*rowsPerCell, rowsPerCell)
			row[x] = domain.Glyph{Char: GlyphFor(Luminance(c)), Color: c}
		}
		rows[y] = row
	}

	return domain.NewGlyphGrid(rows), nil
}

// cellColor averages n vertically adjacent pixels starting at (x, y),
// blending transparent pixels onto black
func cellColor(img *image.NRGBA, x, y, n int) color.RGBA {
	var r, g, b int
	for i := 0; i < n; i++ {
		px := img.NRGBAAt(x, y+i)
		a := int(px.A)
		r += int(px.R) * a / 255
		g += int(px.G) * a / 255
		b += int(px.B) * a / 255
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

// Luminance is the integer mean of the three channels
func Luminance(c color.RGBA) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}

// GlyphIndex maps a luminance in [0, 255] onto the glyph ramp
func GlyphIndex(luminance int) int {
	switch {
	case luminance <= 0:
		return 0
	case luminance >= 255:
		return len(glyphRamp) - 1
	}
	return luminance * (len(glyphRamp) - 1) / 255
}

// GlyphFor returns the glyph for a luminance value
func GlyphFor(luminance int) rune {
	return glyphRamp[GlyphIndex(luminance)]
}

// Fallback returns a width x height placeholder grid with a centered label
func Fallback(width, height int) domain.GlyphGrid {
	if width <= 0 || height <= 0 {
		return domain.GlyphGrid{}
	}

	label := []rune(fallbackLabel)
	if len(label) > width {
		label = label[:width]
	}
	start := (width - len(label)) / 2
	mid := height / 2

	rows := make([][]domain.Glyph, height)
	for y := range rows {
		row := make([]domain.Glyph, width)
		for x := range row {
			row[x] = domain.Glyph{Char: ' ', Color: fallbackColor}
		}
		if y == mid {
			for i, ch := range label {
				row[start+i].Char = ch
			}
		}
		rows[y] = row
	}
	return domain.NewGlyphGrid(rows)
}

/*
Package convert writes decoded images out as PNG or BMP, optionally reducing
them to a limited palette first.
*/
package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
)

// Format is an output image format.
type Format int

// Supported output formats.
const (
	FormatPNG Format = iota
	FormatBMP
)

const maxColors = 256

var errBadColors = errors.New("convert: colors must be between 1 and 256")

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return 0, fmt.Errorf("convert: unknown format %q", s)
}

// FormatFromPath returns the Format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Options controls Encode.
type Options struct {
	Format Format
	// Colors, if non-zero, reduces the image to at most this many colors.
	Colors int
}

// Quantize reduces m to a paletted image of at most n colors.
func Quantize(m image.Image, n int) (*image.Paletted, error) {
	if n < 1 || n > maxColors {
		return nil, errBadColors
	}

	b := m.Bounds()

	// Keep the exact colors when the palette is already small enough
	p, ok := m.ColorModel().(color.Palette)
	if !ok || len(p) > n {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

// Encode writes m to w in the format given by opts.
func Encode(w io.Writer, m image.Image, opts Options) error {
	if opts.Colors != 0 {
		pm, err := Quantize(m, opts.Colors)
		if err != nil {
			return err
		}
		m = pm
	}

	switch opts.Format {
	case FormatPNG:
		return png.Encode(w, m)
	case FormatBMP:
		return bmp.Encode(w, m)
	}
	return fmt.Errorf("convert: unknown format %v", opts.Format)
}

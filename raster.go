package tga

import (
	"image"
	"image/color"
)

// Layout is the byte order of the pixels in a Raster.
type Layout int

// Supported destination layouts, both 8 bits per component.
const (
	LayoutBGR Layout = iota
	LayoutBGRA
)

func (l Layout) String() string {
	switch l {
	case LayoutBGR:
		return "BGR"
	case LayoutBGRA:
		return "BGRA"
	}
	return "unknown"
}

// BytesPerPixel returns 4 for LayoutBGRA and 3 otherwise.
func (l Layout) BytesPerPixel() int {
	if l == LayoutBGRA {
		return 4
	}
	return 3
}

// HasAlpha reports whether the layout carries an alpha component.
func (l Layout) HasAlpha() bool {
	return l == LayoutBGRA
}

// Raster is a row-major, byte interleaved pixel buffer with components in
// B, G, R and optionally A order. It implements image.Image.
type Raster struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
	Layout Layout
}

// NewRaster returns a Raster of the given size and layout.
func NewRaster(width, height int, l Layout) *Raster {
	stride := width * l.BytesPerPixel()
	return &Raster{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
		Layout: l,
	}
}

// ColorModel returns color.NRGBAModel.
func (r *Raster) ColorModel() color.Model { return color.NRGBAModel }

// Bounds returns the rectangle (0, 0)-(Width, Height).
func (r *Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.Width, r.Height) }

// At returns the color of the pixel at (x, y).
func (r *Raster) At(x, y int) color.Color {
	return r.NRGBAAt(x, y)
}

// NRGBAAt returns the color of the pixel at (x, y).
func (r *Raster) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(r.Bounds())) {
		return color.NRGBA{}
	}
	i := y*r.Stride + x*r.Layout.BytesPerPixel()
	c := color.NRGBA{r.Pix[i+2], r.Pix[i+1], r.Pix[i], opaque}
	if r.Layout.HasAlpha() {
		c.A = r.Pix[i+3]
	}
	return c
}

// NRGBA returns a copy of the raster as an *image.NRGBA.
func (r *Raster) NRGBA() *image.NRGBA {
	m := image.NewNRGBA(r.Bounds())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			m.SetNRGBA(x, y, r.NRGBAAt(x, y))
		}
	}
	return m
}

// rowWriter places scanlines, in stream order, into the destination raster.
type rowWriter struct {
	dst         *Raster
	bottomToTop bool
	row         []byte
}

// start positions the writer at the first pixel of source scanline y.
func (w *rowWriter) start(y int) {
	if w.bottomToTop {
		y = w.dst.Height - 1 - y
	}
	w.row = w.dst.Pix[y*w.dst.Stride : y*w.dst.Stride+w.dst.Width*w.dst.Layout.BytesPerPixel()]
}

func (w *rowWriter) put(c color.NRGBA) {
	w.row[0] = c.B
	w.row[1] = c.G
	w.row[2] = c.R
	if w.dst.Layout.HasAlpha() {
		w.row[3] = c.A
		w.row = w.row[4:]
		return
	}
	w.row = w.row[3:]
}

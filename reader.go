package tga

import (
	"errors"
	"image"
	"io"
)

var errConsumed = errors.New("stream already consumed")

// Options restricts how an image is decoded. Only the zero value, or
// regions covering the whole image with no sub-sampling, are supported;
// anything else is rejected with an UnsupportedError before reading.
type Options struct {
	ImageIndex        int
	SourceRegion      image.Rectangle
	DestinationRegion image.Rectangle
	SubsampleX        int
	SubsampleY        int
}

func (o *Options) check(h *Header) error {
	if o == nil {
		return nil
	}
	bounds := image.Rect(0, 0, int(h.Width), int(h.Height))
	switch {
	case o.ImageIndex != 0:
		return UnsupportedError("image index out of range")
	case !o.SourceRegion.Empty() && o.SourceRegion != bounds:
		return UnsupportedError("source region is not the whole image")
	case !o.DestinationRegion.Empty() && o.DestinationRegion != bounds:
		return UnsupportedError("destination region is not the whole image")
	case o.SubsampleX > 1 || o.SubsampleY > 1 || o.SubsampleX < 0 || o.SubsampleY < 0:
		return UnsupportedError("sub-sampling")
	}
	return nil
}

// Reader decodes a single TGA image. The header is read when the Reader is
// created; the color map and pixel data are read by Decode. A Reader is not
// safe for concurrent use.
type Reader struct {
	r      io.Reader
	header *Header

	seeker io.Seeker
	base   int64 // Offset of the header within seeker
	pos    int64 // Offset of r relative to the header, -1 once unknown
}

// NewReader reads the header from r and returns a Reader for the image. If r
// is also an io.Seeker the image can be decoded more than once.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNoInput
	}

	rd := &Reader{r: r}
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			rd.seeker, rd.base = s, off
		}
	}

	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	rd.header = h
	rd.pos = headerSize

	return rd, nil
}

// Header returns the parsed header, or nil if no input is bound.
func (rd *Reader) Header() *Header {
	return rd.header
}

// Width returns the image width in pixels, or 0 if no input is bound.
func (rd *Reader) Width() int {
	if rd.header == nil {
		return 0
	}
	return int(rd.header.Width)
}

// Height returns the image height in pixels, or 0 if no input is bound.
func (rd *Reader) Height() int {
	if rd.header == nil {
		return 0
	}
	return int(rd.header.Height)
}

// NumImages returns the number of images in the file, which is always 1.
func (rd *Reader) NumImages() int {
	return 1
}

// PreferredLayout returns LayoutBGRA for images with an alpha channel and
// LayoutBGR otherwise.
func (rd *Reader) PreferredLayout() Layout {
	if rd.header != nil && rd.header.SamplesPerPixel() == 4 {
		return LayoutBGRA
	}
	return LayoutBGR
}

func (rd *Reader) skipTo(off int64) error {
	if rd.seeker != nil {
		if _, err := rd.seeker.Seek(rd.base+off, io.SeekStart); err != nil {
			return &IOError{Op: "seeking", Err: err}
		}
		rd.pos = off
		return nil
	}

	if rd.pos < 0 || off < rd.pos {
		return &IOError{Op: "seeking", Err: errConsumed}
	}
	n, err := io.CopyN(io.Discard, rd.r, off-rd.pos)
	rd.pos += n
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Op: "seeking", Err: err}
	}
	return nil
}

func (rd *Reader) readColorMap() (ColorMap, error) {
	h := rd.header
	if !h.HasColorMap {
		return nil, nil
	}
	if err := rd.skipTo(h.ColorMapDataOffset()); err != nil {
		return nil, err
	}
	m, err := ReadColorMap(rd.r, h)
	if err != nil {
		rd.pos = -1
		return nil, err
	}
	rd.pos += int64(h.ColorMapLength) * int64(bytesPerSample(h.ColorMapEntrySize))
	return m, nil
}

func (rd *Reader) checkDestination(dst *Raster) error {
	h := rd.header
	if dst == nil {
		return UnsupportedError("no destination")
	}
	if dst.Width != int(h.Width) || dst.Height != int(h.Height) {
		return UnsupportedError("destination size does not match image")
	}
	if dst.Layout != LayoutBGR && dst.Layout != LayoutBGRA {
		return UnsupportedError("destination layout " + dst.Layout.String())
	}
	row := dst.Width * dst.Layout.BytesPerPixel()
	if dst.Stride < row || len(dst.Pix) < dst.Stride*(dst.Height-1)+row {
		return UnsupportedError("destination buffer too small")
	}
	return nil
}

// Decode reads the color map and pixel data into dst, which must match the
// image dimensions. Images without an alpha channel are written as opaque
// when dst has one. The contents of dst are undefined if an error is
// returned.
func (rd *Reader) Decode(dst *Raster, opts *Options) error {
	if rd == nil || rd.header == nil {
		return ErrNoInput
	}
	if err := opts.check(rd.header); err != nil {
		return err
	}
	if err := rd.checkDestination(dst); err != nil {
		return err
	}

	m, err := rd.readColorMap()
	if err != nil {
		return err
	}
	if err := rd.skipTo(rd.header.PixelDataOffset()); err != nil {
		return err
	}

	// Whatever happens, the read position is no longer known
	rd.pos = -1

	return rd.decodePixels(dst, m)
}

func (rd *Reader) decodePixels(dst *Raster, m ColorMap) error {
	h := rd.header
	width, height := int(h.Width), int(h.Height)

	rowSize := width * h.BytesPerSample()
	limit := int64(-1)
	if !h.Compressed() {
		limit = int64(rowSize) * int64(height)
	}

	src := pixelSource{
		rr:         newRowReader(rd.r, rowSize, limit),
		u:          newUnpacker(h, m),
		compressed: h.Compressed(),
	}
	w := rowWriter{dst: dst, bottomToTop: h.BottomToTop()}

	for y := 0; y < height; y++ {
		w.start(y)
		for x := 0; x < width; x++ {
			c, err := src.next()
			if err != nil {
				return err
			}
			w.put(c)
		}
	}

	return nil
}

// Image allocates a Raster in the preferred layout and decodes into it.
func (rd *Reader) Image(opts *Options) (*Raster, error) {
	if rd == nil || rd.header == nil {
		return nil, ErrNoInput
	}
	if err := opts.check(rd.header); err != nil {
		return nil, err
	}
	dst := NewRaster(rd.Width(), rd.Height(), rd.PreferredLayout())
	if err := rd.Decode(dst, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

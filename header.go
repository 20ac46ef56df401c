package tga

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ImageType is the kind of image data stored in a TGA file.
type ImageType uint8

// Image types as stored in the header.
const (
	NoImage      ImageType = 0
	ColorMapped  ImageType = 1
	TrueColor    ImageType = 2
	Mono         ImageType = 3
	RLEColorMap  ImageType = 9
	RLETrueColor ImageType = 10
	RLEMono      ImageType = 11
)

var imageTypeNames = map[ImageType]string{
	NoImage:      "no image",
	ColorMapped:  "color-mapped",
	TrueColor:    "true color",
	Mono:         "monochrome",
	RLEColorMap:  "RLE color-mapped",
	RLETrueColor: "RLE true color",
	RLEMono:      "RLE monochrome",
}

func (t ImageType) String() string {
	if s, ok := imageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%d)", uint8(t))
}

// Compressed reports whether the pixel data is run-length encoded.
func (t ImageType) Compressed() bool {
	return t == RLEColorMap || t == RLETrueColor || t == RLEMono
}

// Header is the fixed size header found at the start of every TGA file.
type Header struct {
	IDLength           uint8
	HasColorMap        bool
	ImageType          ImageType
	FirstColorMapEntry uint16
	ColorMapLength     uint16
	ColorMapEntrySize  uint8
	XOrigin            uint16
	YOrigin            uint16
	Width              uint16
	Height             uint16
	BitsPerPixel       uint8
	Descriptor         uint8
}

// ParseHeader reads the 18 byte header from r. Nothing past the header is
// consumed.
func ParseHeader(r io.Reader) (*Header, error) {
	var b [headerSize]byte
	if err := readFull(r, b[:], "reading header"); err != nil {
		return nil, err
	}

	h := &Header{
		IDLength:           b[0],
		HasColorMap:        b[1] == 1,
		ImageType:          ImageType(b[2]),
		FirstColorMapEntry: binary.LittleEndian.Uint16(b[3:5]),
		ColorMapLength:     binary.LittleEndian.Uint16(b[5:7]),
		ColorMapEntrySize:  b[7],
		XOrigin:            binary.LittleEndian.Uint16(b[8:10]),
		YOrigin:            binary.LittleEndian.Uint16(b[10:12]),
		Width:              binary.LittleEndian.Uint16(b[12:14]),
		Height:             binary.LittleEndian.Uint16(b[14:16]),
		BitsPerPixel:       b[16],
		Descriptor:         b[17],
	}

	switch h.ImageType {
	case ColorMapped, TrueColor, RLEColorMap, RLETrueColor:
	case Mono, RLEMono:
		return nil, FormatError("monochrome images are not supported")
	case NoImage:
		return nil, FormatError("no image data")
	default:
		return nil, FormatError(fmt.Sprintf("unknown image type %d", h.ImageType))
	}
	if h.Width == 0 {
		return nil, FormatError("bad width 0")
	}
	if h.Height == 0 {
		return nil, FormatError("bad height 0")
	}

	return h, nil
}

// Compressed reports whether the pixel data is run-length encoded.
func (h *Header) Compressed() bool {
	return h.ImageType.Compressed()
}

// BottomToTop reports whether the first stored scanline is the bottom row of
// the image, which is the case unless bit 5 of the descriptor is set.
func (h *Header) BottomToTop() bool {
	return h.Descriptor&descriptorTopToBottom == 0
}

// SamplesPerPixel returns 4 when the pixel data carries an alpha channel,
// otherwise 3.
func (h *Header) SamplesPerPixel() int {
	if h.BitsPerPixel == 32 {
		return 4
	}
	return 3
}

// BytesPerSample returns the number of bytes one stored pixel occupies.
// Unrecognised depths are read as single bytes.
func (h *Header) BytesPerSample() int {
	return bytesPerSample(h.BitsPerPixel)
}

func bytesPerSample(bits uint8) int {
	switch bits {
	case 15, 16:
		return 2
	case 24:
		return 3
	case 32:
		return 4
	default:
		return 1
	}
}

// ColorMapDataOffset returns the offset of the color map from the start of
// the file.
func (h *Header) ColorMapDataOffset() int64 {
	return headerSize + int64(h.IDLength)
}

// PixelDataOffset returns the offset of the pixel data from the start of the
// file.
func (h *Header) PixelDataOffset() int64 {
	return h.ColorMapDataOffset() + int64(h.ColorMapLength)*int64((int(h.ColorMapEntrySize)+7)/8)
}

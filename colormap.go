package tga

import (
	"encoding/binary"
	"image/color"
	"io"
)

// ColorMap is the palette of a color-mapped image. It holds one more entry
// than the header declares, as some encoders index one past the end.
type ColorMap []color.NRGBA

// Lookup returns the color at index i.
func (m ColorMap) Lookup(i int) (color.NRGBA, error) {
	if i < 0 || i >= len(m) {
		return color.NRGBA{}, FormatError("color map index out of range")
	}
	return m[i], nil
}

// scale5 widens a 5-bit channel to 8 bits without rounding.
func scale5(v uint16) uint8 {
	return uint8(v&0x1f) << 3
}

func unpack555(v uint16) color.NRGBA {
	return color.NRGBA{scale5(v >> 10), scale5(v >> 5), scale5(v), opaque}
}

// ReadColorMap reads the color map described by h from r, which must be
// positioned at the start of the color map. A nil ColorMap is returned
// without reading anything when h declares no color map.
func ReadColorMap(r io.Reader, h *Header) (ColorMap, error) {
	if !h.HasColorMap {
		return nil, nil
	}

	size := bytesPerSample(h.ColorMapEntrySize)
	buf := make([]byte, int(h.ColorMapLength)*size)
	if err := readFull(r, buf, "reading color map"); err != nil {
		return nil, err
	}

	m := make(ColorMap, int(h.ColorMapLength)+1)
	for i := 0; i < int(h.ColorMapLength); i++ {
		b := buf[i*size : (i+1)*size]
		switch h.ColorMapEntrySize {
		case 15, 16:
			m[i] = unpack555(binary.LittleEndian.Uint16(b))
		case 24:
			m[i] = color.NRGBA{b[2], b[1], b[0], opaque}
		case 32:
			m[i] = color.NRGBA{b[2], b[1], b[0], b[3]}
		default:
			m[i] = color.NRGBA{b[0], b[0], b[0], opaque}
		}
	}
	m[len(m)-1].A = opaque

	return m, nil
}

package tga

import (
	"encoding/binary"
	"image/color"
)

// unpackFunc converts one stored sample into a color.
type unpackFunc func(b []byte) (color.NRGBA, error)

type unpacker struct {
	size   int
	unpack unpackFunc
}

func unpackGray(b []byte) (color.NRGBA, error) {
	return color.NRGBA{b[0], b[0], b[0], opaque}, nil
}

func unpack16(b []byte) (color.NRGBA, error) {
	return unpack555(binary.LittleEndian.Uint16(b)), nil
}

func unpack24(b []byte) (color.NRGBA, error) {
	return color.NRGBA{b[2], b[1], b[0], opaque}, nil
}

func unpack32(b []byte) (color.NRGBA, error) {
	return color.NRGBA{b[2], b[1], b[0], b[3]}, nil
}

// newUnpacker picks the conversion for the pixel depth in h. Only 8-bit
// samples are ever treated as color map indices, and any depth that isn't
// recognised is read as 8-bit grayscale.
func newUnpacker(h *Header, m ColorMap) unpacker {
	switch h.BitsPerPixel {
	case 15, 16:
		return unpacker{2, unpack16}
	case 24:
		return unpacker{3, unpack24}
	case 32:
		return unpacker{4, unpack32}
	}
	if h.HasColorMap {
		return unpacker{1, func(b []byte) (color.NRGBA, error) {
			return m.Lookup(int(b[0]))
		}}
	}
	return unpacker{1, unpackGray}
}

package tga

import (
	"bytes"
	"encoding/binary"
)

func encodeHeader(h Header) []byte {
	b := make([]byte, headerSize)
	b[0] = h.IDLength
	if h.HasColorMap {
		b[1] = 1
	}
	b[2] = byte(h.ImageType)
	binary.LittleEndian.PutUint16(b[3:5], h.FirstColorMapEntry)
	binary.LittleEndian.PutUint16(b[5:7], h.ColorMapLength)
	b[7] = h.ColorMapEntrySize
	binary.LittleEndian.PutUint16(b[8:10], h.XOrigin)
	binary.LittleEndian.PutUint16(b[10:12], h.YOrigin)
	binary.LittleEndian.PutUint16(b[12:14], h.Width)
	binary.LittleEndian.PutUint16(b[14:16], h.Height)
	b[16] = h.BitsPerPixel
	b[17] = h.Descriptor
	return b
}

// buildFile assembles a complete file. The ID field is filled with 'x' to
// match h.IDLength.
func buildFile(h Header, colorMap, pixels []byte) []byte {
	b := new(bytes.Buffer)
	b.Write(encodeHeader(h))
	b.Write(bytes.Repeat([]byte{'x'}, int(h.IDLength)))
	b.Write(colorMap)
	b.Write(pixels)
	return b.Bytes()
}

// packet is one run-length packet: either a single pixel repeated count
// times or count literal pixels.
type packet struct {
	run    bool
	count  int
	pixels [][]byte
}

func encodePackets(packets []packet) []byte {
	b := new(bytes.Buffer)
	for _, p := range packets {
		h := byte(p.count - 1)
		if p.run {
			b.WriteByte(packetRun | h)
			b.Write(p.pixels[0])
			continue
		}
		b.WriteByte(h)
		for _, px := range p.pixels {
			b.Write(px)
		}
	}
	return b.Bytes()
}

// expandPackets returns the pixel sequence the packets describe.
func expandPackets(packets []packet) [][]byte {
	var out [][]byte
	for _, p := range packets {
		if p.run {
			for i := 0; i < p.count; i++ {
				out = append(out, p.pixels[0])
			}
			continue
		}
		out = append(out, p.pixels...)
	}
	return out
}

package tga

import "image/color"

// packetState tracks the packet currently being expanded.
type packetState struct {
	remaining int  // Pixels left in the packet after the one last emitted
	raw       bool // Literal pixels rather than one repeated pixel
	cached    color.NRGBA
}

// pixelSource yields the pixels of an image in stream order, expanding
// run-length packets when the image is compressed. Every pixel must be
// consumed in order, skipping any would lose track of packet boundaries.
type pixelSource struct {
	rr         *rowReader
	u          unpacker
	compressed bool
	state      packetState
}

func (s *pixelSource) read() (color.NRGBA, error) {
	b, err := s.rr.next(s.u.size)
	if err != nil {
		return color.NRGBA{}, err
	}
	return s.u.unpack(b)
}

func (s *pixelSource) next() (color.NRGBA, error) {
	if !s.compressed {
		return s.read()
	}

	if s.state.remaining > 0 {
		s.state.remaining--
		if !s.state.raw {
			return s.state.cached, nil
		}
	} else {
		b, err := s.rr.readByte()
		if err != nil {
			return color.NRGBA{}, err
		}
		s.state.raw = b&packetRun == 0
		s.state.remaining = int(b & packetCount)
	}

	c, err := s.read()
	if err != nil {
		return color.NRGBA{}, err
	}
	s.state.cached = c
	return c, nil
}

package tga

import (
	"bytes"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(data []byte, compressed bool) *pixelSource {
	return &pixelSource{
		rr:         newRowReader(bytes.NewReader(data), 1, -1),
		u:          unpacker{1, unpackGray},
		compressed: compressed,
	}
}

func gray(v uint8) color.NRGBA {
	return color.NRGBA{v, v, v, 0xff}
}

func drain(t *testing.T, s *pixelSource, n int) []color.NRGBA {
	t.Helper()
	out := make([]color.NRGBA, n)
	for i := range out {
		c, err := s.next()
		require.NoError(t, err, "pixel %d", i)
		out[i] = c
	}
	return out
}

func TestPixelSource(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		compressed bool
		want       []uint8
	}{
		{"passthrough", []byte{1, 2, 3, 0x83}, false, []uint8{1, 2, 3, 0x83}},
		{"run of one", []byte{0x80, 9, 0x80, 8}, true, []uint8{9, 8}},
		{"run", []byte{0x83, 5, 0x00, 6}, true, []uint8{5, 5, 5, 5, 6}},
		{"raw of one", []byte{0x00, 9, 0x00, 8}, true, []uint8{9, 8}},
		{"raw", []byte{0x02, 1, 2, 3, 0x81, 4}, true, []uint8{1, 2, 3, 4, 4}},
		{"longest run", []byte{0xff, 7, 0x00, 1}, true, append(bytes.Repeat([]uint8{7}, 128), 1)},
		{"raw repeats are fresh", []byte{0x01, 0x83, 0x83}, true, []uint8{0x83, 0x83}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource(tt.data, tt.compressed)
			want := make([]color.NRGBA, len(tt.want))
			for i, v := range tt.want {
				want[i] = gray(v)
			}
			assert.Equal(t, want, drain(t, s, len(want)))
		})
	}
}

func TestPixelSourceTruncated(t *testing.T) {
	for _, data := range [][]byte{
		{},
		{0x83},
		{0x02, 1, 2},
	} {
		s := newTestSource(data, true)
		var err error
		for i := 0; i < 4 && err == nil; i++ {
			_, err = s.next()
		}
		var ioe *IOError
		assert.ErrorAs(t, err, &ioe, "% x", data)
	}
}

func randomPackets(rnd *rand.Rand, total, size int) []packet {
	var packets []packet
	for total > 0 {
		n := 1 + rnd.Intn(128)
		if n > total {
			n = total
		}
		p := packet{run: rnd.Intn(2) == 0, count: n}
		pixels := n
		if p.run {
			pixels = 1
		}
		for i := 0; i < pixels; i++ {
			px := make([]byte, size)
			rnd.Read(px)
			p.pixels = append(p.pixels, px)
		}
		packets = append(packets, p)
		total -= n
	}
	return packets
}

func TestPixelSourceRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, size := range []int{1, 2, 3, 4} {
		packets := randomPackets(rnd, 20000, size)
		data := encodePackets(packets)
		want := expandPackets(packets)

		s := &pixelSource{
			// A small row size forces packets across refills
			rr:         newRowReader(bytes.NewReader(data), size*7, -1),
			u:          unpacker{size, func(b []byte) (color.NRGBA, error) { return rawColor(b), nil }},
			compressed: true,
		}
		for i, px := range want {
			c, err := s.next()
			require.NoError(t, err, "pixel %d", i)
			require.Equal(t, rawColor(px), c, "pixel %d", i)
		}
	}
}

// rawColor packs up to four sample bytes into a color so that every byte of
// the sample is compared.
func rawColor(b []byte) color.NRGBA {
	var c [4]byte
	copy(c[:], b)
	return color.NRGBA{c[0], c[1], c[2], c[3]}
}

package tga

import (
	"bytes"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadColorMap(t *testing.T) {
	tests := []struct {
		name      string
		entrySize uint8
		data      []byte
		want      []color.NRGBA
	}{
		{
			name:      "8-bit",
			entrySize: 8,
			data:      []byte{0x00, 0x7f, 0xff},
			want: []color.NRGBA{
				{0x00, 0x00, 0x00, 0xff},
				{0x7f, 0x7f, 0x7f, 0xff},
				{0xff, 0xff, 0xff, 0xff},
			},
		},
		{
			name:      "15-bit",
			entrySize: 15,
			data:      []byte{0x00, 0x7c, 0xe0, 0x03, 0x1f, 0x00},
			want: []color.NRGBA{
				{0xf8, 0x00, 0x00, 0xff},
				{0x00, 0xf8, 0x00, 0xff},
				{0x00, 0x00, 0xf8, 0xff},
			},
		},
		{
			name:      "16-bit ignores top bit",
			entrySize: 16,
			data:      []byte{0xff, 0xff, 0x21, 0x84},
			want: []color.NRGBA{
				{0xf8, 0xf8, 0xf8, 0xff},
				{0x08, 0x08, 0x08, 0xff},
			},
		},
		{
			name:      "24-bit",
			entrySize: 24,
			data:      []byte{0x01, 0x02, 0x03, 0xff, 0x00, 0x00},
			want: []color.NRGBA{
				{0x03, 0x02, 0x01, 0xff},
				{0x00, 0x00, 0xff, 0xff},
			},
		},
		{
			name:      "32-bit",
			entrySize: 32,
			data:      []byte{0x01, 0x02, 0x03, 0x04, 0x10, 0x20, 0x30, 0x00},
			want: []color.NRGBA{
				{0x03, 0x02, 0x01, 0x04},
				{0x30, 0x20, 0x10, 0x00},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Header{
				HasColorMap:       true,
				ColorMapLength:    uint16(len(tt.want)),
				ColorMapEntrySize: tt.entrySize,
			}
			r := bytes.NewReader(append(tt.data, 0x99))
			m, err := ReadColorMap(r, h)
			require.NoError(t, err)
			require.Len(t, m, len(tt.want)+1)
			assert.Equal(t, tt.want, []color.NRGBA(m[:len(tt.want)]))
			assert.Equal(t, color.NRGBA{0, 0, 0, 0xff}, m[len(tt.want)])
			assert.Equal(t, 1, r.Len(), "should stop at the end of the color map")
		})
	}
}

func TestReadColorMapAbsent(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3})
	m, err := ReadColorMap(r, &Header{ColorMapLength: 1, ColorMapEntrySize: 24})
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 3, r.Len())
}

func TestReadColorMapShort(t *testing.T) {
	h := &Header{HasColorMap: true, ColorMapLength: 4, ColorMapEntrySize: 24}
	_, err := ReadColorMap(bytes.NewReader(make([]byte, 11)), h)
	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestColorMapLookup(t *testing.T) {
	for _, n := range []uint16{1, 2, 255, 256} {
		h := &Header{HasColorMap: true, ColorMapLength: n, ColorMapEntrySize: 8}
		m, err := ReadColorMap(bytes.NewReader(make([]byte, n)), h)
		require.NoError(t, err)

		_, err = m.Lookup(int(n) - 1)
		assert.NoError(t, err, "last entry of %d", n)
		_, err = m.Lookup(int(n))
		assert.NoError(t, err, "slack entry of %d", n)

		_, err = m.Lookup(int(n) + 1)
		var fe FormatError
		assert.ErrorAs(t, err, &fe)
	}
}

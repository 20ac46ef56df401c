package tga

import (
	"image"
	"image/color"
	"io"
)

// Decode reads a TGA image from r and returns it as an image.Image. The
// concrete type is *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	m, err := rd.Image(nil)
	if err != nil {
		return nil, err
	}
	return m.NRGBA(), nil
}

// DecodeConfig returns the color model and dimensions of a TGA image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Header prefixes a supported file can start with: any ID length, then the
// color map flag and image type.
var magics = []string{
	"?\x00\x02",
	"?\x00\x0a",
	"?\x01\x01",
	"?\x01\x09",
	"?\x01\x02",
	"?\x01\x0a",
}

func init() {
	for _, magic := range magics {
		image.RegisterFormat("tga", magic, Decode, DecodeConfig)
	}
}

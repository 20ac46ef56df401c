/*
Package tga implements a Truevision TGA image decoder.

A TGA file starts with an 18 byte little-endian header, followed by an
optional image ID field, an optional color map and finally the pixel data.
The pixel data is either stored raw or packed into run-length encoded
packets, each starting with a single byte whose top bit selects between a
run of one repeated pixel and a sequence of literal pixels, and whose lower
seven bits hold the number of pixels after the first.

Color-mapped and true color images with 8, 15, 16, 24 or 32 bits per pixel
are supported, compressed or not. Monochrome images are not.

TGA files carry no leading magic so the format is registered with the image
package under every header prefix a supported file can start with. When the
format is known in advance, calling Decode or NewReader directly avoids
relying on that sniffing.
*/
package tga

const (
	headerSize    = 18
	minBufferSize = 8192

	descriptorTopToBottom = 1 << 5
	packetRun             = 0x80
	packetCount           = 0x7f

	opaque = 0xff
)

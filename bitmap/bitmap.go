// Package bitmap reads and writes 24 and 32 bits-per-pixel uncompressed
// Windows BMP images.
//
// Only bottom-up files (positive height) are accepted; top-down files are
// rejected as unsupported. Pixel rows are kept in the order they are stored
// in the file, so row 0 of the Buffer is the bottom scanline of the picture.
package bitmap

import (
	"bufio"
	"fmt"
	"os"
)

// Bitmap is a decoded BMP image: its headers and the pixel buffer they
// describe. A Bitmap exclusively owns its Buffer.
type Bitmap struct {
	FileHeader FileHeader
	InfoHeader InfoHeader
	// ColorMask is set for 32bpp bitmaps only.
	ColorMask *ColorMaskHeader
	Pixels    *Buffer
}

// New creates a blank bitmap of the given size. bitsPerPixel must be 24 or 32.
func New(width, height, bitsPerPixel int) (*Bitmap, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("bmp: invalid dimensions %dx%d", width, height)
	}
	if width > maxDimension || height > maxDimension {
		return nil, UnsupportedError(fmt.Sprintf("dimensions %dx%d", width, height))
	}

	b := &Bitmap{
		FileHeader: FileHeader{Type: Signature},
		InfoHeader: InfoHeader{
			Planes:   1,
			BitCount: uint16(bitsPerPixel),
		},
	}
	switch bitsPerPixel {
	case 24:
	case 32:
		mask := DefaultColorMask()
		b.ColorMask = &mask
		b.InfoHeader.Compression = compressionBitFields
	default:
		return nil, UnsupportedError(fmt.Sprintf("bit depth %d", bitsPerPixel))
	}

	b.Pixels = NewBuffer(width, height, bitsPerPixel/8)
	b.Normalize()
	return b, nil
}

// BytesPerPixel is the pixel size declared by the DIB header.
func (b *Bitmap) BytesPerPixel() int {
	return int(b.InfoHeader.BitCount) / 8
}

// Normalize recomputes the size and offset fields of the headers from the
// pixel buffer. It runs after decoding and before encoding, and must be
// called after a filter changes the buffer geometry if the headers are read
// before the next Encode.
func (b *Bitmap) Normalize() {
	b.FileHeader.Type = Signature

	b.InfoHeader.Size = infoHeaderLen
	if b.InfoHeader.BitCount == 32 {
		b.InfoHeader.Size += colorMaskLen
	}
	b.FileHeader.OffBits = fileHeaderLen + b.InfoHeader.Size

	if b.Pixels != nil {
		b.InfoHeader.Width = int32(b.Pixels.Width)
		b.InfoHeader.Height = int32(b.Pixels.Height)
		b.InfoHeader.SizeImage = uint32(b.Pixels.Height * b.Pixels.Stride)
	}
	b.FileHeader.Size = b.FileHeader.OffBits + b.InfoHeader.SizeImage
}

// Clone returns a deep copy of b.
func (b *Bitmap) Clone() *Bitmap {
	c := *b
	if b.ColorMask != nil {
		mask := *b.ColorMask
		c.ColorMask = &mask
	}
	if b.Pixels != nil {
		c.Pixels = b.Pixels.Clone()
	}
	return &c
}

// Load reads and decodes the BMP file at path.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(bufio.NewReader(f))
}

package bitmap

// Buffer is a grid of pixels stored row after row.
type Buffer struct {
	// Pix holds the rows in stored order. The channels of pixel (x, y)
	// start at Pix[y*Stride + x*BytesPerPixel], ordered B, G, R and, for
	// 4-byte pixels, A.
	Pix []byte
	// Stride is the distance in bytes between vertically adjacent pixels.
	// It is always a multiple of 4; the bytes past Width*BytesPerPixel are
	// padding.
	Stride        int
	Width, Height int
	// BytesPerPixel is 3 for 24bpp and 4 for 32bpp pixels.
	BytesPerPixel int
}

// AlignStride rounds a row length up to the next multiple of 4 bytes.
func AlignStride(n int) int {
	return (n + 3) &^ 3
}

// NewBuffer allocates a zeroed buffer of the given geometry.
func NewBuffer(width, height, bytesPerPixel int) *Buffer {
	stride := AlignStride(width * bytesPerPixel)
	return &Buffer{
		Pix:           make([]byte, height*stride),
		Stride:        stride,
		Width:         width,
		Height:        height,
		BytesPerPixel: bytesPerPixel,
	}
}

// RowLen is the number of pixel bytes in a row, padding excluded.
func (b *Buffer) RowLen() int {
	return b.Width * b.BytesPerPixel
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Offset returns the index in Pix of the first channel of (x, y).
func (b *Buffer) Offset(x, y int) int {
	return y*b.Stride + x*b.BytesPerPixel
}

// At returns channel c of pixel (x, y), or 0 if either is out of range.
func (b *Buffer) At(x, y, c int) uint8 {
	if !b.InBounds(x, y) || c < 0 || c >= b.BytesPerPixel {
		return 0
	}
	return b.Pix[b.Offset(x, y)+c]
}

// Set stores v in channel c of pixel (x, y). Out of range writes are dropped.
func (b *Buffer) Set(x, y, c int, v uint8) {
	if !b.InBounds(x, y) || c < 0 || c >= b.BytesPerPixel {
		return
	}
	b.Pix[b.Offset(x, y)+c] = v
}

// Pixel returns the channels of (x, y) as a slice aliasing Pix, or nil if
// the pixel is out of bounds.
func (b *Buffer) Pixel(x, y int) []byte {
	if !b.InBounds(x, y) {
		return nil
	}
	o := b.Offset(x, y)
	return b.Pix[o : o+b.BytesPerPixel : o+b.BytesPerPixel]
}

// Row returns the pixel bytes of row y without padding, or nil if y is out
// of bounds.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.Height {
		return nil
	}
	o := y * b.Stride
	return b.Pix[o : o+b.RowLen() : o+b.RowLen()]
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Pix = append([]byte(nil), b.Pix...)
	return &c
}

// Equal reports whether both buffers have the same geometry and pixel
// data. Padding is ignored.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height || b.BytesPerPixel != o.BytesPerPixel {
		return false
	}
	for y := range b.Height {
		if string(b.Row(y)) != string(o.Row(y)) {
			return false
		}
	}
	return true
}

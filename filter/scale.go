package filter

import "bmpfx/bitmap"

// ScaleUp doubles the width and height of the image, turning every pixel
// into a 2x2 block.
func ScaleUp(b *bitmap.Buffer) {
	bpp := b.BytesPerPixel
	dst := bitmap.NewBuffer(b.Width*2, b.Height*2, bpp)

	for y := range b.Height {
		src := b.Row(y)
		row := dst.Row(2 * y)
		for x := range b.Width {
			p := src[x*bpp : (x+1)*bpp]
			copy(row[2*x*bpp:], p)
			copy(row[(2*x+1)*bpp:], p)
		}
		copy(dst.Row(2*y+1), row)
	}
	replace(b, dst)
}

// ScaleDown halves the width and height of the image, keeping the pixels at
// odd row and column indices. A trailing odd row or column is dropped.
func ScaleDown(b *bitmap.Buffer) {
	bpp := b.BytesPerPixel
	dst := bitmap.NewBuffer(b.Width/2, b.Height/2, bpp)

	for y := range dst.Height {
		src := b.Row(2*y + 1)
		row := dst.Row(y)
		for x := range dst.Width {
			copy(row[x*bpp:(x+1)*bpp], src[(2*x+1)*bpp:])
		}
	}
	replace(b, dst)
}

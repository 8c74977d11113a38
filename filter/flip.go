package filter

import "bmpfx/bitmap"

// FlipVertical reverses the order of the rows.
func FlipVertical(b *bitmap.Buffer) {
	src := b.Clone()
	for y := range b.Height {
		copy(b.Row(y), src.Row(b.Height-1-y))
	}
}

// FlipHorizontal mirrors every row left to right.
func FlipHorizontal(b *bitmap.Buffer) {
	src := b.Clone()
	bpp := b.BytesPerPixel
	for y := range b.Height {
		dst, row := b.Row(y), src.Row(y)
		for x := range b.Width {
			mx := b.Width - 1 - x
			copy(dst[x*bpp:(x+1)*bpp], row[mx*bpp:(mx+1)*bpp])
		}
	}
}

package filter

import "bmpfx/bitmap"

// The transforms below work in buffer coordinates, where row 0 is the bottom
// scanline of a bottom-up BMP. In those coordinates y grows upwards, so
// Rotate90 turns the displayed picture clockwise.

// transform builds a buffer of the given size where pixel (x, y) is copied
// from src(x, y) of b.
func transform(b *bitmap.Buffer, width, height int, from func(x, y int) (int, int)) {
	dst := bitmap.NewBuffer(width, height, b.BytesPerPixel)
	for y := range height {
		for x := range width {
			sx, sy := from(x, y)
			copy(dst.Pixel(x, y), b.Pixel(sx, sy))
		}
	}
	replace(b, dst)
}

// Rotate90 rotates the image a quarter turn clockwise, swapping width and
// height.
func Rotate90(b *bitmap.Buffer) {
	w := b.Width
	transform(b, b.Height, b.Width, func(x, y int) (int, int) {
		return w - 1 - y, x
	})
}

// Rotate180 turns the image upside down.
func Rotate180(b *bitmap.Buffer) {
	w, h := b.Width, b.Height
	transform(b, w, h, func(x, y int) (int, int) {
		return w - 1 - x, h - 1 - y
	})
}

// Rotate270 rotates the image a quarter turn counter-clockwise, swapping
// width and height.
func Rotate270(b *bitmap.Buffer) {
	h := b.Height
	transform(b, b.Height, b.Width, func(x, y int) (int, int) {
		return y, h - 1 - x
	})
}

// FlipDiagonal mirrors the image over the line y = -x, the diagonal running
// from the top-left to the bottom-right corner of the picture.
func FlipDiagonal(b *bitmap.Buffer) {
	w, h := b.Width, b.Height
	transform(b, h, w, func(x, y int) (int, int) {
		return w - 1 - y, h - 1 - x
	})
}

// FlipAntiDiagonal mirrors the image over the line y = x, the diagonal
// running from the bottom-left to the top-right corner of the picture.
func FlipAntiDiagonal(b *bitmap.Buffer) {
	transform(b, b.Height, b.Width, func(x, y int) (int, int) {
		return y, x
	})
}

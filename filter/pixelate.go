package filter

import "bmpfx/bitmap"

const (
	pixelateStep  = 8
	pixelateBlock = 2 * pixelateStep
)

// Pixelate averages the image over 16x16 blocks whose centres lie on an
// 8-pixel grid, starting 8 pixels in from the low edges and stopping 8
// pixels before the high edges. Averages are taken from a snapshot of the
// input. Each average is written over its 16 rows and 17 columns, the extra
// column being x+8.
func Pixelate(b *bitmap.Buffer) {
	src := b.Clone()
	bpp := b.BytesPerPixel

	for y := pixelateStep; y < b.Height-pixelateStep; y += pixelateStep {
		for x := pixelateStep; x < b.Width-pixelateStep; x += pixelateStep {
			var sum [4]int
			for oy := -pixelateStep; oy < pixelateStep; oy++ {
				row := src.Row(y + oy)
				for ox := -pixelateStep; ox < pixelateStep; ox++ {
					p := row[(x+ox)*bpp:]
					for c := range bpp {
						sum[c] += int(p[c])
					}
				}
			}

			var avg [4]uint8
			for c := range bpp {
				avg[c] = uint8(sum[c] / (pixelateBlock * pixelateBlock))
			}

			for oy := -pixelateStep; oy < pixelateStep; oy++ {
				for ox := -pixelateStep; ox <= pixelateStep; ox++ {
					copy(b.Pixel(x+ox, y+oy), avg[:bpp])
				}
			}
		}
	}
}

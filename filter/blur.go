package filter

import "bmpfx/bitmap"

// gaussKernel is the outer product of [1 4 6 4 1] with itself.
var gaussKernel = [5][5]uint32{
	{1, 4, 6, 4, 1},
	{4, 16, 24, 16, 4},
	{6, 24, 36, 24, 6},
	{4, 16, 24, 16, 4},
	{1, 4, 6, 4, 1},
}

const (
	gaussWeight = 256
	// The low margin is the kernel radius; the high one is one wider.
	blurMarginLow  = 2
	blurMarginHigh = 3
)

// Blur applies a 5x5 Gaussian blur. Pixels are processed row by row and
// read their neighbourhood from the buffer being written, so neighbours
// above and to the left are already blurred. Pixels closer than 2 to the
// low edges or 3 to the high edges are left as they are.
func Blur(b *bitmap.Buffer) {
	bpp := b.BytesPerPixel
	for y := blurMarginLow; y < b.Height-blurMarginHigh; y++ {
		for x := blurMarginLow; x < b.Width-blurMarginHigh; x++ {
			var sum [4]uint32
			for ky := range 5 {
				row := b.Row(y + ky - 2)
				for kx := range 5 {
					w := gaussKernel[ky][kx]
					p := row[(x+kx-2)*bpp:]
					for c := range bpp {
						sum[c] += uint32(p[c]) * w
					}
				}
			}

			p := b.Pixel(x, y)
			for c := range bpp {
				p[c] = uint8(sum[c] / gaussWeight)
			}
		}
	}
}

package filter

import "bmpfx/bitmap"

// Grayscale sets B, G and R of every pixel to the integer average of its
// channels. For 32bpp pixels the alpha channel takes part in the average
// and is overwritten with it as well.
func Grayscale(b *bitmap.Buffer) {
	bpp := b.BytesPerPixel
	for y := range b.Height {
		row := b.Row(y)
		for x := 0; x < len(row); x += bpp {
			p := row[x : x+bpp]
			sum := 0
			for _, v := range p {
				sum += int(v)
			}
			avg := uint8(sum / bpp)
			for c := range p {
				p[c] = avg
			}
		}
	}
}

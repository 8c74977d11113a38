package filter

import "bmpfx/bitmap"

// quantizeLevels are the values every channel is snapped to, in tie-break
// order.
var quantizeLevels = [...]uint8{0, 128, 255}

var quantizeTable = func() (t [256]uint8) {
	for v := range t {
		t[v] = nearestLevel(uint8(v))
	}
	return t
}()

func nearestLevel(v uint8) uint8 {
	best, bestDist := quantizeLevels[0], 256
	for _, l := range quantizeLevels {
		d := int(v) - int(l)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}

// Quantize gives the image a cell-shaded look by snapping every channel of
// every pixel, alpha included, to the nearest of 0, 128 and 255.
func Quantize(b *bitmap.Buffer) {
	for y := range b.Height {
		row := b.Row(y)
		for i, v := range row {
			row[i] = quantizeTable[v]
		}
	}
}

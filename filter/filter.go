// Package filter implements in-place transformations of BMP pixel buffers.
//
// Filters address pixels through bitmap.Buffer and only touch the pixel
// bytes of each row, never the padding. Filters that change the geometry of
// the image replace the buffer contents with a freshly allocated one.
package filter

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"bmpfx/bitmap"
)

// Func transforms a pixel buffer in place.
type Func func(*bitmap.Buffer)

var registry = map[string]Func{
	"quantize":  Quantize,
	"cellshade": Quantize,
	"grayscale": Grayscale,
	"pixelate":  Pixelate,
	"blur":      Blur,
	"flipv":     FlipVertical,
	"fliph":     FlipHorizontal,
	"scaleup":   ScaleUp,
	"scaledown": ScaleDown,
	"rot90":     Rotate90,
	"rot180":    Rotate180,
	"rot270":    Rotate270,
	"flipd1":    FlipDiagonal,
	"flipd2":    FlipAntiDiagonal,
}

// Names returns the registered filter names in sorted order.
func Names() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	return f, nil
}

// Apply runs the named filters on the pixels of bm, in order, and
// normalizes its headers afterwards. Nothing is applied if a name is unknown.
func Apply(bm *bitmap.Bitmap, names ...string) error {
	funcs := make([]Func, 0, len(names))
	for _, name := range names {
		f, err := Lookup(name)
		if err != nil {
			return err
		}
		funcs = append(funcs, f)
	}

	for _, f := range funcs {
		f(bm.Pixels)
	}
	bm.Normalize()
	return nil
}

// replace swaps the contents of b for dst.
func replace(b, dst *bitmap.Buffer) {
	*b = *dst
}

package bitmap

import (
	"image"

	"golang.org/x/image/draw"
)

// Image converts the bitmap into an *image.NRGBA with the top scanline at
// y = 0. The fourth byte of a 32bpp pixel is alpha only for BI_BITFIELDS
// bitmaps with a non-zero alpha mask; every other pixel is opaque.
func (b *Bitmap) Image() *image.NRGBA {
	buf := b.Pixels
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	alpha := buf.BytesPerPixel == 4 && b.InfoHeader.Compression == compressionBitFields &&
		(b.ColorMask == nil || b.ColorMask.AlphaMask != 0)

	for y := range buf.Height {
		src := buf.Row(buf.Height - 1 - y)
		dst := img.Pix[y*img.Stride : y*img.Stride+buf.Width*4]
		for x := range buf.Width {
			p := src[x*buf.BytesPerPixel:]
			q := dst[x*4 : x*4+4 : x*4+4]
			q[0], q[1], q[2], q[3] = p[2], p[1], p[0], 0xff
			if alpha {
				q[3] = p[3]
			}
		}
	}
	return img
}

// FromImage packs img into a new bitmap of the given bit depth. The alpha
// channel is dropped for 24bpp output.
func FromImage(img image.Image, bitsPerPixel int) (*Bitmap, error) {
	r := img.Bounds()
	b, err := New(r.Dx(), r.Dy(), bitsPerPixel)
	if err != nil {
		return nil, err
	}

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(src, src.Bounds(), img, r.Min, draw.Src)
	}

	buf := b.Pixels
	for y := range buf.Height {
		row := src.Pix[y*src.Stride:]
		dst := buf.Row(buf.Height - 1 - y)
		for x := range buf.Width {
			q := row[x*4 : x*4+4 : x*4+4]
			p := dst[x*buf.BytesPerPixel:]
			p[0], p[1], p[2] = q[2], q[1], q[0]
			if buf.BytesPerPixel == 4 {
				p[3] = q[3]
			}
		}
	}
	return b, nil
}

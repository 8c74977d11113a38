package convert

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"bmpfx/bitmap"
)

// picture is a decoded source file. Exactly one of bm and img is set.
type picture struct {
	bm     *bitmap.Bitmap
	img    image.Image
	format string
}

func (p *picture) image() image.Image {
	if p.bm != nil {
		return p.bm.Image()
	}
	return p.img
}

// load decodes path with the native codec, falling back to the registered
// image decoders for anything the codec does not accept: other formats and
// BMP variants such as paletted, RLE or top-down files.
func load(path string) (*picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open source file %q: %w", path, err)
	}
	defer f.Close()

	bm, err := bitmap.Decode(bufio.NewReader(f))
	if err == nil {
		return &picture{bm: bm, format: "bmp"}, nil
	}
	var formatErr *bitmap.FormatError
	var unsupErr bitmap.UnsupportedError
	if !errors.As(err, &formatErr) && !errors.As(err, &unsupErr) {
		return nil, err
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("could not rewind source file %q: %w", path, err)
	}
	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", path, err)
	}
	return &picture{img: img, format: format}, nil
}

// outputFormat resolves "same" against the source format. Formats that
// cannot be written fall back to png.
func outputFormat(format string, p *picture) string {
	if format != "same" {
		return format
	}
	switch {
	case p.bm != nil:
		return fmt.Sprintf("bmp%d", p.bm.InfoHeader.BitCount)
	case p.format == "bmp":
		return "bmp32"
	case p.format == "gif", p.format == "jpeg", p.format == "png", p.format == "tiff":
		return p.format
	default:
		return "png"
	}
}

func extension(format string) string {
	switch format {
	case "bmp24", "bmp32":
		return ".bmp"
	default:
		return "." + format
	}
}

func encode(w io.Writer, p *picture, format string) error {
	switch format {
	case "bmp24", "bmp32":
		bitsPerPixel := 24
		if format == "bmp32" {
			bitsPerPixel = 32
		}
		bm := p.bm
		if bm == nil || int(bm.InfoHeader.BitCount) != bitsPerPixel {
			var err error
			if bm, err = bitmap.FromImage(p.image(), bitsPerPixel); err != nil {
				return err
			}
		}
		if err := bitmap.Encode(w, bm); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "gif":
		if err := gif.Encode(w, p.image(), nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, p.image(), &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, p.image()); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, p.image(), nil); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// pngBuffers shares compression state between PNG encodes running on
// different jobs. An empty pool hands out nil, which png.Encoder replaces
// with a fresh buffer.
type pngBuffers struct{ pool sync.Pool }

func (p *pngBuffers) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *pngBuffers) Put(b *png.EncoderBuffer) { p.pool.Put(b) }

var pngPool = new(pngBuffers)

package bitmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// maxDimension bounds width and height so a corrupt header cannot request
// an absurd allocation.
const maxDimension = 1 << 16

// maxPixelBytes bounds the padded pixel array a header may declare.
const maxPixelBytes = 1 << 30

// pixelChunk is the most pixel memory allocated ahead of the data actually
// read from the stream.
const pixelChunk = 1 << 20

// Config holds the geometry of a BMP image as read from its headers.
type Config struct {
	Width, Height int
	BitsPerPixel  int
	// Stride is the padded length of a pixel row.
	Stride int
	// FileSize is the size of the file once normalized and re-encoded.
	FileSize int
}

type decoder struct {
	r io.Reader
	// pos is the number of bytes consumed since decoding started.
	pos int64
	// start is the position of the stream when decoding started, if r is
	// an io.Seeker.
	start int64
	bm    Bitmap
}

// Decode reads a 24 or 32 bits-per-pixel BMP image from r.
//
// Decoding is all-or-nothing: on error no Bitmap is returned. Malformed
// input yields a *FormatError, valid but unsupported input an
// UnsupportedError and stream failures an *IOError.
func Decode(r io.Reader) (*Bitmap, error) {
	d := &decoder{r: r}
	if s, ok := r.(io.Seeker); ok {
		start, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, &IOError{Op: "locate stream start", Err: err}
		}
		d.start = start
	}

	if err := d.decodeHeaders(); err != nil {
		return nil, err
	}
	if err := d.seekPixels(); err != nil {
		return nil, err
	}
	if err := d.decodePixels(); err != nil {
		return nil, err
	}

	d.bm.Normalize()
	return &d.bm, nil
}

// DecodeConfig reads the headers of a BMP image without its pixels.
func DecodeConfig(r io.Reader) (Config, error) {
	d := &decoder{r: r}
	if err := d.decodeHeaders(); err != nil {
		return Config{}, err
	}

	ih := d.bm.InfoHeader
	width, height := int(ih.Width), int(ih.Height)
	stride := AlignStride(width * int(ih.BitCount) / 8)
	size := infoHeaderLen
	if ih.BitCount == 32 {
		size += colorMaskLen
	}

	return Config{
		Width:        width,
		Height:       height,
		BitsPerPixel: int(ih.BitCount),
		Stride:       stride,
		FileSize:     fileHeaderLen + size + height*stride,
	}, nil
}

func (d *decoder) read(op string, data any) error {
	if err := binary.Read(d.r, binary.LittleEndian, data); err != nil {
		return d.ioErr(op, err)
	}
	d.pos += int64(binary.Size(data))
	return nil
}

func (d *decoder) readFull(op string, buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.pos += int64(n)
	if err != nil {
		return d.ioErr(op, err)
	}
	return nil
}

func (d *decoder) ioErr(op string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Op: "read " + op, Offset: d.pos, Err: err}
}

func (d *decoder) decodeHeaders() error {
	fh := &d.bm.FileHeader
	if err := d.read("file header", fh); err != nil {
		return err
	}
	if fh.Type != Signature {
		return &FormatError{Msg: "not a BMP file", Offset: 0}
	}

	ih := &d.bm.InfoHeader
	if err := d.read("info header", ih); err != nil {
		return err
	}
	if ih.Size < infoHeaderLen {
		return UnsupportedError(fmt.Sprintf("DIB header of %d bytes", ih.Size))
	}

	switch ih.BitCount {
	case 24, 32:
	default:
		return UnsupportedError(fmt.Sprintf("bit depth %d", ih.BitCount))
	}

	switch {
	case ih.Compression == compressionRGB:
	case ih.Compression == compressionBitFields && ih.BitCount == 32:
	default:
		return UnsupportedError(fmt.Sprintf("compression method %d", ih.Compression))
	}

	if ih.Width < 0 {
		return &FormatError{Msg: fmt.Sprintf("negative width %d", ih.Width), Offset: fileHeaderLen + 4}
	}
	if ih.Height < 0 {
		return UnsupportedError("top-down row order")
	}
	if ih.Width > maxDimension || ih.Height > maxDimension {
		return UnsupportedError(fmt.Sprintf("dimensions %dx%d", ih.Width, ih.Height))
	}
	if n := int64(AlignStride(int(ih.Width)*int(ih.BitCount)/8)) * int64(ih.Height); n > maxPixelBytes {
		return UnsupportedError(fmt.Sprintf("pixel array of %d bytes", n))
	}

	if ih.BitCount == 32 {
		if ih.Size < infoHeaderLen+colorMaskLen {
			return &FormatError{Msg: "missing bit-mask information", Offset: d.pos}
		}
		mask := new(ColorMaskHeader)
		if err := d.read("color mask header", mask); err != nil {
			return err
		}
		d.bm.ColorMask = mask
	}

	return nil
}

// seekPixels positions the stream at the pixel array.
func (d *decoder) seekPixels() error {
	off := int64(d.bm.FileHeader.OffBits)
	if off == d.pos {
		return nil
	}

	if s, ok := d.r.(io.Seeker); ok {
		if _, err := s.Seek(d.start+off, io.SeekStart); err != nil {
			return &IOError{Op: "seek to pixel data", Offset: d.pos, Err: err}
		}
		d.pos = off
		return nil
	}

	if off < d.pos {
		return &FormatError{
			Msg:    fmt.Sprintf("pixel data offset %d overlaps the headers", off),
			Offset: fileHeaderLen - 4,
		}
	}
	n, err := io.CopyN(io.Discard, d.r, off-d.pos)
	d.pos += n
	if err != nil {
		return d.ioErr("gap before pixel data", err)
	}
	return nil
}

// decodePixels reads the pixel array. The buffer grows with the data read,
// so a header that overstates the image size fails with an *IOError before
// much memory is committed.
func (d *decoder) decodePixels() error {
	ih := d.bm.InfoHeader
	width, height, bpp := int(ih.Width), int(ih.Height), int(ih.BitCount)/8
	stride := AlignStride(width * bpp)
	rowLen := width * bpp
	total := height * stride

	pix := make([]byte, 0, min(total, pixelChunk))
	if rowLen == stride {
		for len(pix) < total {
			n := min(total-len(pix), pixelChunk)
			pix = slices.Grow(pix, n)
			if err := d.readFull("pixel data", pix[len(pix):len(pix)+n]); err != nil {
				return err
			}
			pix = pix[:len(pix)+n]
		}
	} else {
		padding := make([]byte, stride-rowLen)
		for y := range height {
			pix = slices.Grow(pix, stride)
			row := pix[len(pix) : len(pix)+stride]
			if err := d.readFull(fmt.Sprintf("pixel row %d", y), row[:rowLen]); err != nil {
				return err
			}
			if err := d.readFull("row padding", padding); err != nil {
				return err
			}
			clear(row[rowLen:])
			pix = pix[:len(pix)+stride]
		}
	}

	d.bm.Pixels = &Buffer{
		Pix:           pix,
		Stride:        stride,
		Width:         width,
		Height:        height,
		BytesPerPixel: bpp,
	}
	return nil
}

package bitmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

type encoder struct {
	w   *bufio.Writer
	pos int64
}

func (e *encoder) write(op string, data any) error {
	if err := binary.Write(e.w, binary.LittleEndian, data); err != nil {
		return &IOError{Op: "write " + op, Offset: e.pos, Err: err}
	}
	e.pos += int64(binary.Size(data))
	return nil
}

func (e *encoder) writeBytes(op string, b []byte) error {
	n, err := e.w.Write(b)
	e.pos += int64(n)
	if err != nil {
		return &IOError{Op: "write " + op, Offset: e.pos, Err: err}
	}
	return nil
}

// Encode writes b to w in BMP format. The headers of b are normalized to
// the pixel buffer first. Rows are padded with zeros to a 4-byte boundary.
func Encode(w io.Writer, b *Bitmap) error {
	bpp := b.InfoHeader.BitCount
	switch bpp {
	case 24, 32:
	default:
		return UnsupportedError(fmt.Sprintf("bit depth %d", bpp))
	}
	if b.Pixels == nil {
		return ErrNoPixels
	}
	if b.Pixels.BytesPerPixel*8 != int(bpp) {
		return UnsupportedError(fmt.Sprintf("%d-byte pixels in a %d-bit bitmap", b.Pixels.BytesPerPixel, bpp))
	}

	b.Normalize()

	e := &encoder{w: bufio.NewWriter(w)}
	if err := e.write("file header", &b.FileHeader); err != nil {
		return err
	}
	if err := e.write("info header", &b.InfoHeader); err != nil {
		return err
	}
	if bpp == 32 {
		mask := b.ColorMask
		if mask == nil {
			def := DefaultColorMask()
			mask = &def
		}
		if err := e.write("color mask header", mask); err != nil {
			return err
		}
	}

	buf := b.Pixels
	if buf.RowLen() == buf.Stride {
		if err := e.writeBytes("pixel data", buf.Pix[:buf.Height*buf.Stride]); err != nil {
			return err
		}
	} else {
		padding := make([]byte, buf.Stride-buf.RowLen())
		for y := range buf.Height {
			if err := e.writeBytes(fmt.Sprintf("pixel row %d", y), buf.Row(y)); err != nil {
				return err
			}
			if err := e.writeBytes("row padding", padding); err != nil {
				return err
			}
		}
	}

	if err := e.w.Flush(); err != nil {
		return &IOError{Op: "flush", Offset: e.pos, Err: err}
	}
	return nil
}

package bitmap

import (
	"errors"
	"fmt"
)

// ErrNoPixels is returned when encoding a Bitmap that carries no Buffer.
var ErrNoPixels = errors.New("bmp: bitmap has no pixel data")

// FormatError reports that the input is not a valid BMP. Offset is the byte
// position in the stream where the problem was found.
type FormatError struct {
	Msg    string
	Offset int64
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bmp: invalid format at offset %#x: %s", e.Offset, e.Msg)
}

// UnsupportedError reports that the input uses a valid but unimplemented BMP
// feature, such as a bit depth other than 24 or 32.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "bmp: unsupported feature: " + string(e) }

// IOError reports that the underlying stream failed while reading or
// writing the structure named by Op.
type IOError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bmp: %s at offset %#x: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

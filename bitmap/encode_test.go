package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	xbmp "golang.org/x/image/bmp"
)

func newPatterned(t *testing.T, width, height, bitsPerPixel int) *Bitmap {
	t.Helper()
	bm, err := New(width, height, bitsPerPixel)
	if err != nil {
		t.Fatalf("New(%d, %d, %d): %v", width, height, bitsPerPixel, err)
	}
	buf := bm.Pixels
	for y := range buf.Height {
		for x := range buf.Width {
			p := buf.Pixel(x, y)
			for c := range p {
				p[c] = byte(x*31 + y*17 + c*53)
			}
			if buf.BytesPerPixel == 4 {
				p[3] = 0xff
			}
		}
	}
	return bm
}

func TestRoundTrip(t *testing.T) {
	for _, bpp := range []int{24, 32} {
		for width := 1; width <= 6; width++ {
			for _, height := range []int{1, 2, 5} {
				t.Run(fmt.Sprintf("%dbpp_%dx%d", bpp, width, height), func(t *testing.T) {
					orig := newPatterned(t, width, height, bpp)

					var first bytes.Buffer
					if err := Encode(&first, orig); err != nil {
						t.Fatalf("Encode: %v", err)
					}
					if got := uint32(first.Len()); got != orig.FileHeader.Size {
						t.Errorf("encoded %d bytes, FileHeader.Size says %d", got, orig.FileHeader.Size)
					}

					decoded, err := Decode(bytes.NewReader(first.Bytes()))
					if err != nil {
						t.Fatalf("Decode: %v", err)
					}
					if !decoded.Pixels.Equal(orig.Pixels) {
						t.Error("pixel buffer changed across a round trip")
					}
					if diff := cmp.Diff(orig.FileHeader, decoded.FileHeader); diff != "" {
						t.Errorf("FileHeader mismatch (-want +got):\n%s", diff)
					}
					if diff := cmp.Diff(orig.InfoHeader, decoded.InfoHeader); diff != "" {
						t.Errorf("InfoHeader mismatch (-want +got):\n%s", diff)
					}
					if diff := cmp.Diff(orig.ColorMask, decoded.ColorMask); diff != "" {
						t.Errorf("ColorMask mismatch (-want +got):\n%s", diff)
					}

					var second bytes.Buffer
					if err := Encode(&second, decoded); err != nil {
						t.Fatalf("Encode: %v", err)
					}
					if !bytes.Equal(first.Bytes(), second.Bytes()) {
						t.Error("re-encoding a decoded bitmap is not byte-identical")
					}
				})
			}
		}
	}
}

func TestEncodeIsByteExact(t *testing.T) {
	fh, ih := header24(4, 2)
	data := buildBMP(t, fh, ih, nil, nil, sequence(24))

	bm, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var out bytes.Buffer
	if err := Encode(&out, bm); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Errorf("Encode:\n got %v\nwant %v", out.Bytes(), data)
	}
}

func TestEncodeZeroesPadding(t *testing.T) {
	bm := newPatterned(t, 3, 2, 24)
	for y := range 2 {
		copy(bm.Pixels.Pix[y*12+9:], []byte{1, 2, 3})
	}

	var out bytes.Buffer
	if err := Encode(&out, bm); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	pix := out.Bytes()[54:]
	if len(pix) != 24 {
		t.Fatalf("pixel array: got %d bytes, want 24", len(pix))
	}
	for y := range 2 {
		if pad := pix[y*12+9 : y*12+12]; !bytes.Equal(pad, []byte{0, 0, 0}) {
			t.Errorf("row %d padding: got %v", y, pad)
		}
	}
}

func TestEncodeUnsupportedBitDepth(t *testing.T) {
	bm := newPatterned(t, 2, 2, 24)
	bm.InfoHeader.BitCount = 16

	var out bytes.Buffer
	err := Encode(&out, bm)
	var ue UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("Encode: got %v, want UnsupportedError", err)
	}
	if out.Len() != 0 {
		t.Errorf("Encode wrote %d bytes before failing", out.Len())
	}
}

func TestEncodeMismatchedBuffer(t *testing.T) {
	bm := newPatterned(t, 2, 2, 24)
	bm.Pixels = NewBuffer(2, 2, 4)

	var ue UnsupportedError
	if err := Encode(&bytes.Buffer{}, bm); !errors.As(err, &ue) {
		t.Fatalf("Encode: got %v, want UnsupportedError", err)
	}

	bm.Pixels = nil
	if err := Encode(&bytes.Buffer{}, bm); !errors.Is(err, ErrNoPixels) {
		t.Fatalf("Encode: got %v, want ErrNoPixels", err)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEncodeWriteFailure(t *testing.T) {
	boom := errors.New("disk full")
	err := Encode(failingWriter{boom}, newPatterned(t, 40, 40, 24))

	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("Encode: got %v, want *IOError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Encode: got %v, want it to wrap %v", err, boom)
	}
}

func TestEncodeDefaultColorMask(t *testing.T) {
	bm := newPatterned(t, 2, 2, 32)
	bm.ColorMask = nil

	var out bytes.Buffer
	if err := Encode(&out, bm); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(DefaultColorMask(), *decoded.ColorMask); diff != "" {
		t.Errorf("ColorMask mismatch (-want +got):\n%s", diff)
	}
}

// TestEncodeDecodesWithXImage checks the encoder output against an
// independent decoder.
func TestEncodeDecodesWithXImage(t *testing.T) {
	for _, bpp := range []int{24, 32} {
		for _, width := range []int{1, 3, 4, 7} {
			t.Run(fmt.Sprintf("%dbpp_width%d", bpp, width), func(t *testing.T) {
				bm := newPatterned(t, width, 3, bpp)

				var out bytes.Buffer
				if err := Encode(&out, bm); err != nil {
					t.Fatalf("Encode: %v", err)
				}
				img, err := xbmp.Decode(&out)
				if err != nil {
					t.Fatalf("x/image/bmp.Decode: %v", err)
				}

				want := bm.Image()
				if img.Bounds() != want.Bounds() {
					t.Fatalf("bounds: got %v, want %v", img.Bounds(), want.Bounds())
				}
				for y := range 3 {
					for x := range width {
						got := color.NRGBAModel.Convert(img.At(x, y))
						if got != want.At(x, y) {
							t.Errorf("pixel (%d, %d): got %v, want %v", x, y, got, want.At(x, y))
						}
					}
				}
			})
		}
	}
}

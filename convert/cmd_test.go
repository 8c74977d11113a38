package convert

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	xbmp "golang.org/x/image/bmp"

	"bmpfx/bitmap"
	"bmpfx/parallel"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := range 3 {
		for x := range 5 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 80), B: uint8(x*y + 3), A: 0xff})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatalf("encoding %s: %v", filepath.Base(path), err)
	}
}

func samePixels(t *testing.T, name string, got image.Image, want *image.NRGBA) {
	t.Helper()
	if got.Bounds().Size() != want.Bounds().Size() {
		t.Fatalf("%s: size %v, want %v", name, got.Bounds().Size(), want.Bounds().Size())
	}
	b := got.Bounds()
	for y := range want.Bounds().Dy() {
		for x := range want.Bounds().Dx() {
			g := color.NRGBAModel.Convert(got.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if w := want.NRGBAAt(x, y); g != w {
				t.Fatalf("%s: pixel (%d, %d) = %v, want %v", name, x, y, g, w)
			}
		}
	}
}

func runConvert(t *testing.T, dir, format string) {
	t.Helper()
	c := CLICmd{Scan: dir, Dest: "out", Format: format}
	if err := c.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := c.Run(parallel.Start(2)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestBitmapToPNG(t *testing.T) {
	dir := t.TempDir()
	src := testImage()
	writeFile(t, filepath.Join(dir, "pic.bmp"), func(f *os.File) error {
		bm, err := bitmap.FromImage(src, 24)
		if err != nil {
			return err
		}
		return bitmap.Encode(f, bm)
	})

	runConvert(t, dir, "png")

	f, err := os.Open(filepath.Join(dir, "out", "pic.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	samePixels(t, "pic.png", got, src)
}

func TestPNGToBitmap(t *testing.T) {
	dir := t.TempDir()
	src := testImage()
	writeFile(t, filepath.Join(dir, "pic.png"), func(f *os.File) error { return png.Encode(f, src) })

	runConvert(t, dir, "bmp32")

	bm, err := bitmap.Load(filepath.Join(dir, "out", "pic.bmp"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bm.InfoHeader.BitCount != 32 {
		t.Errorf("BitCount: got %d, want 32", bm.InfoHeader.BitCount)
	}
	samePixels(t, "pic.bmp", bm.Image(), src)
}

// Paletted bitmaps are outside the native codec and go through x/image/bmp.
func TestPalettedBitmap(t *testing.T) {
	dir := t.TempDir()
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 40)
	}
	writeFile(t, filepath.Join(dir, "gray.bmp"), func(f *os.File) error { return xbmp.Encode(f, gray) })

	runConvert(t, dir, "same")

	bm, err := bitmap.Load(filepath.Join(dir, "out", "gray.bmp"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := image.NewNRGBA(gray.Bounds())
	for y := range 2 {
		for x := range 3 {
			v := gray.GrayAt(x, y).Y
			want.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 0xff})
		}
	}
	samePixels(t, "gray.bmp", bm.Image(), want)
}

func TestRunCountsFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "junk.bmp"), []byte("this is not a picture at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := CLICmd{Scan: dir, Dest: "out", Format: "png"}
	if err := c.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := c.Run(parallel.Start(1)); err == nil || err.Error() != "error processing 1 files" {
		t.Errorf("Run: got %v", err)
	}
}

func TestOutputFormat(t *testing.T) {
	bm24, _ := bitmap.New(1, 1, 24)
	bm32, _ := bitmap.New(1, 1, 32)
	tests := []struct {
		name    string
		format  string
		pic     *picture
		want    string
		wantExt string
	}{
		{"explicit", "jpeg", &picture{bm: bm24, format: "bmp"}, "jpeg", ".jpeg"},
		{"native 24", "same", &picture{bm: bm24, format: "bmp"}, "bmp24", ".bmp"},
		{"native 32", "same", &picture{bm: bm32, format: "bmp"}, "bmp32", ".bmp"},
		{"foreign bmp", "same", &picture{format: "bmp"}, "bmp32", ".bmp"},
		{"gif", "same", &picture{format: "gif"}, "gif", ".gif"},
		{"webp", "same", &picture{format: "webp"}, "png", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputFormat(tt.format, tt.pic)
			if got != tt.want {
				t.Errorf("outputFormat: got %q, want %q", got, tt.want)
			}
			if ext := extension(got); ext != tt.wantExt {
				t.Errorf("extension(%q): got %q, want %q", got, ext, tt.wantExt)
			}
		})
	}
}

func TestSameStemSources(t *testing.T) {
	for _, force := range []bool{false, true} {
		dir := t.TempDir()
		src := testImage()
		writeFile(t, filepath.Join(dir, "a.png"), func(f *os.File) error { return png.Encode(f, src) })
		writeFile(t, filepath.Join(dir, "a.gif"), func(f *os.File) error { return gif.Encode(f, src, nil) })

		c := CLICmd{Scan: dir, Dest: "out", Format: "bmp24", Force: force}
		if err := c.Validate(nil); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		err := c.Run(parallel.Start(4))
		if err == nil || err.Error() != "error processing 1 files" {
			t.Errorf("force=%v: Run: got %v, want one failure", force, err)
		}

		entries, err := os.ReadDir(filepath.Join(dir, "out"))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "a.bmp" {
			t.Errorf("force=%v: destination holds %v, want only a.bmp", force, entries)
		}
	}
}

func TestPNGBuffers(t *testing.T) {
	var p pngBuffers
	if b := p.Get(); b != nil {
		t.Errorf("empty pool returned %v", b)
	}

	src := testImage()
	for i := range 2 {
		dir := t.TempDir()
		path := filepath.Join(dir, "pic.png")
		writeFile(t, path, func(f *os.File) error { return encode(f, &picture{img: src, format: "png"}, "png") })

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("encode %d: png.Decode: %v", i, err)
		}
		samePixels(t, "pic.png", got, src)
	}
}

package bitmap

// Signature is the "BM" magic at the start of every BMP file, read little-endian.
const Signature = 0x4D42

// ColorSpaceSRGB is the LCS_sRGB tag ("sRGB") stored in ColorMaskHeader.
const ColorSpaceSRGB = 0x73524742

const (
	compressionRGB       = 0
	compressionBitFields = 3
)

// Sizes of the packed on-disk structures.
const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	colorMaskLen  = 84
)

// FileHeader is the BITMAPFILEHEADER structure.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      uint16 // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32 // The size, in bytes, of the bitmap file.
	Reserved1 uint16 // Reserved; must be zero.
	Reserved2 uint16 // Reserved; must be zero.
	OffBits   uint32 // Offset, in bytes, from the start of the file to the pixel array.
}

// InfoHeader is the BITMAPINFOHEADER (DIB header) structure.
type InfoHeader struct {
	Size            uint32 // The number of bytes required by the DIB header.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels.
	Planes          uint16 // The number of planes for the target device, always 1.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression.
	SizeImage       uint32 // The size of the pixel array, in bytes.
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes actually used by the bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

// ColorMaskHeader follows the InfoHeader of 32bpp bitmaps and describes
// where each channel lives inside a pixel.
type ColorMaskHeader struct {
	RedMask        uint32
	GreenMask      uint32
	BlueMask       uint32
	AlphaMask      uint32
	ColorSpaceType uint32
	Reserved       [16]uint32
}

// DefaultColorMask returns the BGRA masks with an sRGB colour space.
func DefaultColorMask() ColorMaskHeader {
	return ColorMaskHeader{
		RedMask:        0x00ff0000,
		GreenMask:      0x0000ff00,
		BlueMask:       0x000000ff,
		AlphaMask:      0xff000000,
		ColorSpaceType: ColorSpaceSRGB,
	}
}

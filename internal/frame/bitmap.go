package frame

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mode describes the channel layout of a bitmap's pixel bytes.
type Mode string

// Supported pixel modes.
const (
	ModeL    Mode = "L"    // 8-bit grayscale
	ModeLA   Mode = "LA"   // 8-bit grayscale + alpha
	ModeRGB  Mode = "RGB"  // 8-bit red, green, blue
	ModeRGBA Mode = "RGBA" // 8-bit red, green, blue, non-premultiplied alpha
)

// BytesPerPixel returns the pixel size of the mode, or 0 for an unknown mode.
func (m Mode) BytesPerPixel() int {
	switch m {
	case ModeL:
		return 1
	case ModeLA:
		return 2
	case ModeRGB:
		return 3
	case ModeRGBA:
		return 4
	}
	return 0
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	return m.BytesPerPixel() > 0
}

// Bitmap is a decoded in-memory image: shape, mode and the raw pixel buffer.
//
// Pix holds Width*Height*Mode.BytesPerPixel() bytes in row-major order with no
// row padding.
type Bitmap struct {
	Width  int
	Height int
	Mode   Mode
	Pix    []byte

	// Format is the file format the bitmap was loaded from ("png", "jpeg", ...).
	// It is empty for bitmaps produced by a transform.
	Format string
}

// NewBitmap allocates a zeroed bitmap of the given shape.
func NewBitmap(width, height int, mode Mode) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Mode:   mode,
		Pix:    make([]byte, width*height*mode.BytesPerPixel()),
	}
}

// FormatOr returns the bitmap's declared format, or hint when it has none.
func (b *Bitmap) FormatOr(hint string) string {
	if b.Format != "" {
		return b.Format
	}
	return hint
}

// Stride is the number of bytes in one row.
func (b *Bitmap) Stride() int {
	return b.Width * b.Mode.BytesPerPixel()
}

// Image returns the bitmap as a standard library image. L bitmaps become
// *image.Gray; all other modes become *image.NRGBA. The pixel data is copied.
func (b *Bitmap) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Mode == ModeL {
		img := image.NewGray(rect)
		copy(img.Pix, b.Pix)
		return img
	}

	img := image.NewNRGBA(rect)
	bpp := b.Mode.BytesPerPixel()
	n := b.Width * b.Height
	for i := 0; i < n; i++ {
		s := b.Pix[i*bpp : i*bpp+bpp]
		d := img.Pix[i*4 : i*4+4]
		switch b.Mode {
		case ModeLA:
			d[0], d[1], d[2], d[3] = s[0], s[0], s[0], s[1]
		case ModeRGB:
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		case ModeRGBA:
			copy(d, s)
		}
	}
	return img
}

// FromImage converts img into a Bitmap, choosing the mode from the image's
// color model: grayscale images become L, opaque images RGB, and everything
// else RGBA. 16-bit channels are reduced to 8 bits.
func FromImage(img image.Image, format string) *Bitmap {
	mode := ModeRGBA
	switch src := img.(type) {
	case *image.Gray, *image.Gray16:
		mode = ModeL
	case *image.NRGBA:
		// an explicit alpha channel is kept even when every pixel is opaque
		mode = ModeRGBA
	case *image.YCbCr, *image.CMYK:
		mode = ModeRGB
	case interface{ Opaque() bool }:
		if src.Opaque() {
			mode = ModeRGB
		}
	}
	b := ConvertImage(img, mode)
	b.Format = format
	return b
}

// ConvertImage converts img into a Bitmap of the requested mode. Conversion to
// L and LA uses the ITU-R 601 luma of the color channels, which is exact for
// images whose channels are already equal.
func ConvertImage(img image.Image, mode Mode) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	b := NewBitmap(w, h, mode)

	if g, ok := img.(*image.Gray); ok && mode == ModeL {
		for y := 0; y < h; y++ {
			off := (y+bounds.Min.Y-g.Rect.Min.Y)*g.Stride + (bounds.Min.X - g.Rect.Min.X)
			copy(b.Pix[y*w:(y+1)*w], g.Pix[off:off+w])
		}
		return b
	}

	src := imaging.Clone(img)
	bpp := mode.BytesPerPixel()
	for i := 0; i < w*h; i++ {
		s := src.Pix[i*4 : i*4+4]
		d := b.Pix[i*bpp : i*bpp+bpp]
		switch mode {
		case ModeL:
			d[0] = luma(s[0], s[1], s[2])
		case ModeLA:
			d[0], d[1] = luma(s[0], s[1], s[2]), s[3]
		case ModeRGB:
			d[0], d[1], d[2] = s[0], s[1], s[2]
		case ModeRGBA:
			copy(d, s)
		}
	}
	return b
}

func luma(r, g, b uint8) uint8 {
	return color.GrayModel.Convert(color.NRGBA{R: r, G: g, B: b, A: 0xff}).(color.Gray).Y
}

// Equal reports whether a and b have the same shape, mode and pixel bytes.
// Format is ignored.
func Equal(a, b *Bitmap) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Width == b.Width &&
		a.Height == b.Height &&
		a.Mode == b.Mode &&
		bytes.Equal(a.Pix, b.Pix)
}

// Package raster decodes TIFF images into a canonical RGBA8 pixel buffer and
// encodes that buffer as a non-interlaced, unfiltered PNG.
package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks malformed or unsupported source bytes.
	ErrDecode = errors.New("decode error")
	// ErrEncode marks a pixel buffer that violates its own size invariant.
	ErrEncode = errors.New("encode error")
)

// PixelBuffer holds interleaved R,G,B,A samples, row-major, top to bottom.
// Alpha is straight (not premultiplied).
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*4
}

// NewPixelBuffer validates the dimensions against the sample count.
func NewPixelBuffer(width, height int, pix []byte) (*PixelBuffer, error) {
	b := &PixelBuffer{Width: width, Height: height, Pix: pix}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *PixelBuffer) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	want := b.Width * b.Height * 4
	if want/4/b.Width != b.Height {
		return fmt.Errorf("dimensions %dx%d overflow", b.Width, b.Height)
	}
	if len(b.Pix) != want {
		return fmt.Errorf("sample count %d does not match %dx%d RGBA (%d)", len(b.Pix), b.Width, b.Height, want)
	}
	return nil
}

// At returns the RGBA samples of the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

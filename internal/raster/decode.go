package raster

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// Decode parses TIFF bytes and normalizes the first image to RGBA8.
//
// Grayscale, paletted, RGB, 16-bit and premultiplied-alpha layouts are all
// expanded to straight RGBA8; sources without alpha come out fully opaque.
// Every failure wraps ErrDecode.
func Decode(data []byte) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: read pixels: %w", ErrDecode, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != cfg.Width || bounds.Dy() != cfg.Height {
		return nil, fmt.Errorf("%w: decoded %dx%d but header declares %dx%d",
			ErrDecode, bounds.Dx(), bounds.Dy(), cfg.Width, cfg.Height)
	}

	// Clone always yields a tightly packed *image.NRGBA anchored at (0,0).
	nrgba := imaging.Clone(img)
	buf, err := NewPixelBuffer(cfg.Width, cfg.Height, nrgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return buf, nil
}

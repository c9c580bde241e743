package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"fortio.org/safecast"
	"github.com/klauspost/compress/zlib"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	pngBitDepth      = 8
	pngColorRGBA     = 6
	pngFilterNone    = 0
	pngNoInterlace   = 0
	pngDeflateMethod = 0
)

// Encode writes buf as an 8-bit RGBA PNG. Rows use filter type 0 and the
// image is not interlaced, so the output is a lossless copy of buf.
// It only fails (wrapping ErrEncode) when buf breaks its size invariant.
func Encode(buf *PixelBuffer) ([]byte, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil pixel buffer", ErrEncode)
	}
	if err := buf.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	w, err := safecast.Conv[uint32](buf.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: width: %w", ErrEncode, err)
	}
	h, err := safecast.Conv[uint32](buf.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: height: %w", ErrEncode, err)
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = pngBitDepth
	ihdr[9] = pngColorRGBA
	ihdr[10] = pngDeflateMethod
	ihdr[11] = 0 // adaptive filter method; every row still uses type 0
	ihdr[12] = pngNoInterlace

	idat, err := compressRows(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	var out bytes.Buffer
	out.Grow(len(pngSignature) + len(idat) + 64)
	out.Write(pngSignature)
	for _, c := range []struct {
		typ  string
		data []byte
	}{
		{"IHDR", ihdr[:]},
		{"IDAT", idat},
		{"IEND", nil},
	} {
		if err := writeChunk(&out, c.typ, c.data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	return out.Bytes(), nil
}

// compressRows builds the zlib stream of filter-prefixed scanlines.
func compressRows(buf *PixelBuffer) ([]byte, error) {
	var z bytes.Buffer
	zw, err := zlib.NewWriterLevel(&z, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}
	stride := buf.Width * 4
	row := make([]byte, 1+stride)
	row[0] = pngFilterNone
	for y := 0; y < buf.Height; y++ {
		copy(row[1:], buf.Pix[y*stride:(y+1)*stride])
		if _, err := zw.Write(row); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return z.Bytes(), nil
}

func writeChunk(out *bytes.Buffer, typ string, data []byte) error {
	n, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return fmt.Errorf("%s chunk too large: %w", typ, err)
	}
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], n)
	copy(hdr[4:8], typ)
	out.Write(hdr[:])
	out.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
	return nil
}

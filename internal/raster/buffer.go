package raster

import (
	"errors"
	"fmt"
	"image"
)

// MaxCells caps a single buffer allocation (256 Mi cells, 1 GiB of color).
const MaxCells = 1 << 28

// ErrAllocation is matched by every AllocationError.
var ErrAllocation = errors.New("raster: pixel buffer allocation failed")

// AllocationError reports a buffer that could not be allocated.
type AllocationError struct {
	Width  int
	Height int
	Reason string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("raster: allocate %dx%d buffer: %s", e.Width, e.Height, e.Reason)
}

// Is makes errors.Is(err, ErrAllocation) hold.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// PixelBuffer holds one frame as a flat row-major slice for cache locality.
// Writes outside [0,W)x[0,H) are dropped.
type PixelBuffer struct {
	width  int
	height int
	pix    []Color // len = W*H
}

// New allocates a width x height buffer. Cells are zero until the first Clear.
func New(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &AllocationError{Width: width, Height: height, Reason: "dimensions must be positive"}
	}
	if width > MaxCells/height {
		return nil, &AllocationError{Width: width, Height: height, Reason: "too many cells"}
	}

	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Pixels returns the backing row-major cells. Presenters must treat it as read-only.
func (b *PixelBuffer) Pixels() []Color { return b.pix }

// Clear sets every cell to c.
func (b *PixelBuffer) Clear(c Color) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// SetPixel writes c at (x, y). Out-of-bounds writes are silently clipped.
func (b *PixelBuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = c
}

// At returns the color at (x, y), or 0 outside the buffer.
func (b *PixelBuffer) At(x, y int) Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Release drops the storage. Afterwards the buffer is 0x0 and clips everything.
func (b *PixelBuffer) Release() {
	b.pix = nil
	b.width = 0
	b.height = 0
}

// Image converts the buffer to a fresh image.RGBA.
func (b *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	UnpackRGBA(img.Pix, b.pix)
	return img
}

// CopyTo unpacks the buffer into dst, which must match the buffer bounds.
func (b *PixelBuffer) CopyTo(dst *image.RGBA) error {
	if dst.Rect.Dx() != b.width || dst.Rect.Dy() != b.height {
		return fmt.Errorf("raster: copy %dx%d into %dx%d image", b.width, b.height, dst.Rect.Dx(), dst.Rect.Dy())
	}
	for y := 0; y < b.height; y++ {
		off := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		UnpackRGBA(dst.Pix[off:off+b.width*4], b.pix[y*b.width:(y+1)*b.width])
	}
	return nil
}

// UnpackRGBA writes each packed color as R, G, B, A bytes into dst.
// dst must hold at least 4*len(src) bytes.
func UnpackRGBA(dst []uint8, src []Color) {
	for i, c := range src {
		j := i * 4
		dst[j] = uint8(c >> 24)
		dst[j+1] = uint8(c >> 16)
		dst[j+2] = uint8(c >> 8)
		dst[j+3] = uint8(c)
	}
}

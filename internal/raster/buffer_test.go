package raster

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Dimensions(t *testing.T) {
	buf, err := New(7, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, buf.Width())
	assert.Equal(t, 3, buf.Height())
	assert.Len(t, buf.Pixels(), 21)
}

func TestNew_AllocationError(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -4, 4},
		{"too many cells", MaxCells, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New(tt.w, tt.h)
			assert.Nil(t, buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAllocation))

			var allocErr *AllocationError
			require.ErrorAs(t, err, &allocErr)
			assert.Equal(t, tt.w, allocErr.Width)
			assert.Equal(t, tt.h, allocErr.Height)
		})
	}
}

func TestClear_RoundTrip(t *testing.T) {
	buf, err := New(13, 9)
	require.NoError(t, err)

	for _, c := range []Color{Black, 0x5fcde4ff, Transparent, 0xffffffff} {
		buf.Clear(c)
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				if got := buf.At(x, y); got != c {
					t.Fatalf("after Clear(%08x): At(%d,%d) = %08x", c, x, y, got)
				}
			}
		}
	}
}

func TestSetPixel_InBounds(t *testing.T) {
	buf, err := New(4, 4)
	require.NoError(t, err)
	buf.Clear(Black)

	buf.SetPixel(0, 0, 0x11223344)
	buf.SetPixel(3, 3, 0x55667788)
	buf.SetPixel(2, 1, 0x99aabbcc)

	assert.Equal(t, Color(0x11223344), buf.At(0, 0))
	assert.Equal(t, Color(0x55667788), buf.At(3, 3))
	assert.Equal(t, Color(0x99aabbcc), buf.At(2, 1))
	// Row-major layout
	assert.Equal(t, Color(0x99aabbcc), buf.Pixels()[1*4+2])
}

func TestSetPixel_ClipsOutOfBounds(t *testing.T) {
	buf, err := New(5, 4)
	require.NoError(t, err)
	buf.Clear(Black)
	before := append([]Color(nil), buf.Pixels()...)

	outside := [][2]int{
		{-1, 0}, {0, -1}, {5, 0}, {0, 4}, {5, 4},
		{-100, -100}, {1 << 30, 2}, {2, 1 << 30}, {-1, 2},
	}
	for _, p := range outside {
		assert.NotPanics(t, func() { buf.SetPixel(p[0], p[1], 0xdeadbeef) })
	}

	assert.Equal(t, before, buf.Pixels())
}

func TestAt_OutOfBounds(t *testing.T) {
	buf, err := New(2, 2)
	require.NoError(t, err)
	buf.Clear(0xffffffff)
	assert.Equal(t, Color(0), buf.At(-1, 0))
	assert.Equal(t, Color(0), buf.At(2, 1))
}

func TestRelease(t *testing.T) {
	buf, err := New(3, 3)
	require.NoError(t, err)
	buf.Release()

	assert.Equal(t, 0, buf.Width())
	assert.Equal(t, 0, buf.Height())
	assert.Nil(t, buf.Pixels())
	assert.NotPanics(t, func() { buf.SetPixel(1, 1, Black) })
}

func TestImage_ByteOrder(t *testing.T) {
	buf, err := New(2, 1)
	require.NoError(t, err)
	buf.SetPixel(0, 0, 0x5fcde4ff)
	buf.SetPixel(1, 0, 0x01020304)

	img := buf.Image()
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	assert.Equal(t, []uint8{0x5f, 0xcd, 0xe4, 0xff, 0x01, 0x02, 0x03, 0x04}, img.Pix)
}

func TestCopyTo(t *testing.T) {
	buf, err := New(3, 2)
	require.NoError(t, err)
	buf.Clear(0x808080ff)
	buf.SetPixel(2, 1, 0x005ff3ff)

	dst := image.NewRGBA(image.Rect(0, 0, 3, 2))
	require.NoError(t, buf.CopyTo(dst))
	assert.Equal(t, buf.Image().Pix, dst.Pix)

	wrong := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Error(t, buf.CopyTo(wrong))
}

func TestColor_Channels(t *testing.T) {
	c := RGBA(0x99, 0xe5, 0x50, 0xff)
	assert.Equal(t, Color(0x99e550ff), c)

	r, g, b, a := c.Channels()
	assert.Equal(t, [4]uint8{0x99, 0xe5, 0x50, 0xff}, [4]uint8{r, g, b, a})

	r32, g32, b32, a32 := c.RGBA()
	assert.Equal(t, uint32(0x9999), r32)
	assert.Equal(t, uint32(0xe5e5), g32)
	assert.Equal(t, uint32(0x5050), b32)
	assert.Equal(t, uint32(0xffff), a32)
}

package raster

import "image/color"

// Color is a packed RGBA8888 value laid out as 0xRRGGBBAA.
type Color uint32

// Common colors.
const (
	Black       Color = 0x000000FF
	Transparent Color = 0x00000000
)

// RGBA packs 8-bit channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(r)<<24 | Color(g)<<16 | Color(b)<<8 | Color(a)
}

// Channels returns the unpremultiplied 8-bit channels.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA implements color.Color. Channels are treated as straight (non-premultiplied) alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}.RGBA()
}

package scene

import "softraster/internal/raster"

// Composer owns the per-frame state: the target buffer and the animation
// counter. Nothing else survives between frames.
type Composer struct {
	buf     *raster.PixelBuffer
	counter Counter
}

// NewComposer returns a composer drawing into buf, starting at counter 0.
func NewComposer(buf *raster.PixelBuffer) *Composer {
	return &Composer{buf: buf}
}

// Step composes one frame and advances the counter.
func (c *Composer) Step() {
	c.counter = Compose(c.buf, c.counter)
}

// Counter returns the number of frames composed, modulo 2^32.
func (c *Composer) Counter() Counter { return c.counter }

// Buffer returns the target buffer.
func (c *Composer) Buffer() *raster.PixelBuffer { return c.buf }

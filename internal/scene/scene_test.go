package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softraster/internal/raster"
)

func newBuffer(t *testing.T, w, h int) *raster.PixelBuffer {
	t.Helper()
	buf, err := raster.New(w, h)
	require.NoError(t, err)
	return buf
}

func TestGridPhase_Sequence(t *testing.T) {
	const w = 640
	var xs, ys []int
	for n := Counter(0); n < 4; n++ {
		x, y := GridPhase(w, n)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	assert.Equal(t, []int{320, 320, 321, 321}, xs)
	assert.Equal(t, []int{320, 321, 322, 323}, ys)
}

func TestGridPhase_Wraps(t *testing.T) {
	x, y := GridPhase(100, 32)
	assert.Equal(t, 50+16, x)
	assert.Equal(t, 50, y)

	x, y = GridPhase(100, 64)
	assert.Equal(t, 50, x)
	assert.Equal(t, 50, y)
}

func TestGridPhase_UsesWidthForBothAxes(t *testing.T) {
	// Height plays no part in the phase.
	x, y := GridPhase(800, 5)
	assert.Equal(t, 400+2, x)
	assert.Equal(t, 400+5, y)
}

func TestBackground_640x480(t *testing.T) {
	bg := Background(640, 480)
	assert.Equal(t, Rect{CX: 320, CY: 210, W: 480, H: 30, Color: SkyBlue}, bg[0])
	assert.Equal(t, Rect{CX: 200, CY: 210, W: 80, H: 255, Color: Periwinkle}, bg[1])
	assert.Equal(t, Rect{CX: 320, CY: 330, W: 600, H: 105, Color: DarkGreen}, bg[2])
}

func TestForeground_640x480(t *testing.T) {
	fg := Foreground(640, 480)
	assert.Equal(t, Rect{CX: 440, CY: 90, W: 280, H: 150, Color: Azure}, fg[0])
	assert.Equal(t, Rect{CX: 360, CY: 390, W: 280, H: 150, Color: LimeGreen}, fg[1])
}

func TestCommands_Order(t *testing.T) {
	cmds := Commands(640, 480, 3)
	require.Len(t, cmds, 6)

	for i, cmd := range cmds {
		if i == 3 {
			require.NotNil(t, cmd.Grid)
			assert.Nil(t, cmd.Rect)
			continue
		}
		require.NotNil(t, cmd.Rect, "command %d", i)
		assert.Nil(t, cmd.Grid, "command %d", i)
	}

	assert.Equal(t, Grid{X: 321, Y: 323, Spacing: 32, Color: GridColor}, *cmds[3].Grid)
	assert.Equal(t, SkyBlue, cmds[0].Rect.Color)
	assert.Equal(t, Periwinkle, cmds[1].Rect.Color)
	assert.Equal(t, DarkGreen, cmds[2].Rect.Color)
	assert.Equal(t, Azure, cmds[4].Rect.Color)
	assert.Equal(t, LimeGreen, cmds[5].Rect.Color)
}

func TestCompose_Frame640x480(t *testing.T) {
	buf := newBuffer(t, 640, 480)
	next := Compose(buf, 0)
	assert.Equal(t, Counter(1), next)

	// Grid lines at x, y in {0, 32, ..., 608} since the origin is (320, 320).
	tests := []struct {
		name string
		x, y int
		want raster.Color
	}{
		{"background", 1, 1, ClearColor},
		{"grid corner", 0, 0, GridColor},
		{"grid vertical line", 32, 5, GridColor},
		{"grid horizontal line", 5, 448, GridColor},

		{"sky top-left", 80, 195, SkyBlue},
		{"sky bottom-right on grid row", 559, 224, GridColor},
		{"sky near bottom-right", 558, 223, SkyBlue},
		{"left of sky", 79, 195, ClearColor},

		{"periwinkle top-left on grid column", 160, 83, GridColor},
		{"periwinkle near top-left", 161, 83, Periwinkle},
		{"periwinkle over sky", 161, 200, Periwinkle},
		{"green over periwinkle", 219, 300, DarkGreen},
		{"lime over periwinkle and green", 239, 337, LimeGreen},

		{"green top-left", 20, 278, DarkGreen},
		{"green bottom-right", 619, 382, DarkGreen},
		{"below green", 619, 383, ClearColor},

		{"azure top-left over grid", 300, 15, Azure},
		{"azure bottom-right", 579, 164, Azure},
		{"azure covers grid column", 320, 100, Azure},
		{"right of azure", 580, 15, ClearColor},

		{"lime top-left", 220, 315, LimeGreen},
		{"lime bottom-right", 499, 464, LimeGreen},
		{"lime covers grid intersection", 224, 320, LimeGreen},
		{"below lime", 499, 465, ClearColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buf.At(tt.x, tt.y), "pixel (%d,%d)", tt.x, tt.y)
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	a := newBuffer(t, 320, 200)
	b := newBuffer(t, 320, 200)

	Render(a, 17)
	first := append([]raster.Color(nil), a.Pixels()...)
	Render(a, 17)
	assert.Equal(t, first, a.Pixels())

	// A dirty buffer converges to the same frame.
	b.Clear(0xffffffff)
	Render(b, 17)
	assert.Equal(t, first, b.Pixels())
}

func TestRender_CounterMovesGrid(t *testing.T) {
	a := newBuffer(t, 320, 200)
	b := newBuffer(t, 320, 200)
	Render(a, 0)
	Render(b, 1)
	assert.NotEqual(t, a.Pixels(), b.Pixels())
}

func TestComposer_CounterMonotonic(t *testing.T) {
	c := NewComposer(newBuffer(t, 64, 48))
	for k := 1; k <= 100; k++ {
		c.Step()
		require.Equal(t, Counter(k), c.Counter())
	}
}

func TestCompose_CounterWraps(t *testing.T) {
	buf := newBuffer(t, 16, 16)
	next := Compose(buf, math.MaxUint32)
	assert.Equal(t, Counter(0), next)
}

func TestComposer_MatchesCompose(t *testing.T) {
	buf := newBuffer(t, 128, 96)
	c := NewComposer(buf)
	c.Step()
	c.Step()

	ref := newBuffer(t, 128, 96)
	Render(ref, 1)
	assert.Equal(t, ref.Pixels(), c.Buffer().Pixels())
}

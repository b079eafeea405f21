package snapshot

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("WebP")
	require.NoError(t, err)
	assert.Equal(t, WebP, f)

	f, err = ParseFormat(" tga ")
	require.NoError(t, err)
	assert.Equal(t, TGA, f)
	assert.Equal(t, ".tga", f.Ext())

	_, err = ParseFormat("png")
	assert.Error(t, err)
}

func TestEncode_WebPContainer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(8, 8), WebP))

	data := buf.Bytes()
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestEncode_TGARoundTrip(t *testing.T) {
	src := testImage(6, 4)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, TGA))

	got, err := tga.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds().Size(), got.Bounds().Size())

	b := got.Bounds()
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			want := color.NRGBAModel.Convert(src.At(x, y))
			have := color.NRGBAModel.Convert(got.At(b.Min.X+x, b.Min.Y+y))
			assert.Equal(t, want, have, "(%d,%d)", x, y)
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, testImage(1, 1), Format("bmp")))
}

func TestWriter_WritesFramesAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	w, err := NewWriter(Config{Dir: dir, Format: WebP, Workers: 2})
	require.NoError(t, err)

	img := testImage(8, 6)
	for _, frame := range []uint64{30, 10, 20} {
		require.NoError(t, w.Submit(frame, img))
	}
	results, err := w.Close()
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), w.Processed())

	for i, frame := range []uint64{10, 20, 30} {
		r := results[i]
		assert.Equal(t, frame, r.Frame)
		assert.True(t, r.Success, r.Error)
		assert.Equal(t, w.FileName(frame), r.Path)

		info, err := os.Stat(filepath.Join(dir, r.Path))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, ManifestEntry{Frame: 10, Image: "frame_000010.webp", Width: 8, Height: 6}, entries[0])
}

func TestWriter_SubmitAfterClose(t *testing.T) {
	w, err := NewWriter(Config{Dir: t.TempDir(), Format: TGA, Workers: 1})
	require.NoError(t, err)

	_, err = w.Close()
	require.NoError(t, err)

	assert.ErrorIs(t, w.Submit(1, testImage(1, 1)), ErrClosed)
	_, err = w.Close()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWriter_Defaults(t *testing.T) {
	w, err := NewWriter(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "frame_000007.webp", w.FileName(7))
	_, err = w.Close()
	require.NoError(t, err)
}

func TestWriteManifest_SkipsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	err := WriteManifest(path, []Result{
		{Frame: 1, Path: "a.webp", Width: 2, Height: 2, Success: true},
		{Frame: 2, Path: "b.webp", Error: "disk full"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	assert.Equal(t, []ManifestEntry{{Frame: 1, Image: "a.webp", Width: 2, Height: 2}}, entries)
}

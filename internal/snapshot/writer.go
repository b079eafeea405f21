// Package snapshot encodes presented frames to image files on a worker pool
// and records them in a manifest.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"softraster/internal/logging"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("snapshot: writer closed")

// Config holds the output settings for a Writer.
type Config struct {
	Dir     string
	Format  Format
	Workers int
}

// Result holds the outcome of encoding one frame.
type Result struct {
	Frame   uint64
	Path    string
	Width   int
	Height  int
	Success bool
	Error   string
}

type job struct {
	frame uint64
	img   *image.RGBA
}

// Writer encodes submitted frames in the background.
type Writer struct {
	cfg       Config
	jobs      chan job
	wg        sync.WaitGroup
	processed atomic.Int64

	mu      sync.Mutex
	results []Result
	closed  bool
}

// NewWriter creates the output directory and starts the workers.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Format == "" {
		cfg.Format = WebP
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create %s: %w", cfg.Dir, err)
	}

	w := &Writer{
		cfg:  cfg,
		jobs: make(chan job, cfg.Workers*2),
	}
	for i := 0; i < cfg.Workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for j := range w.jobs {
				r := w.process(j)
				w.mu.Lock()
				w.results = append(w.results, r)
				w.mu.Unlock()
				w.processed.Add(1)
			}
		}()
	}
	return w, nil
}

// Submit queues a copy of img as frame number frame. It blocks while the
// queue is full. Submit must not race with Close.
func (w *Writer) Submit(frame uint64, img *image.RGBA) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrClosed
	}

	cp := image.NewRGBA(img.Rect)
	copy(cp.Pix, img.Pix)
	w.jobs <- job{frame: frame, img: cp}
	return nil
}

// Processed returns how many frames have been written or have failed.
func (w *Writer) Processed() int64 { return w.processed.Load() }

// Close drains the queue, writes manifest.json and returns per-frame results
// ordered by frame number.
func (w *Writer) Close() ([]Result, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	w.closed = true
	w.mu.Unlock()

	close(w.jobs)
	w.wg.Wait()

	results := append([]Result(nil), w.results...)
	sort.Slice(results, func(i, j int) bool { return results[i].Frame < results[j].Frame })

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			logging.Logger().Warn("snapshot failed", "frame", r.Frame, "error", r.Error)
		}
	}

	manifestPath := filepath.Join(w.cfg.Dir, "manifest.json")
	if err := WriteManifest(manifestPath, results); err != nil {
		return results, fmt.Errorf("snapshot: write manifest: %w", err)
	}
	logging.Logger().Info("snapshots written",
		"dir", w.cfg.Dir, "frames", len(results)-failed, "failed", failed)
	return results, nil
}

// FileName returns the file name used for a frame.
func (w *Writer) FileName(frame uint64) string {
	return fmt.Sprintf("frame_%06d%s", frame, w.cfg.Format.Ext())
}

func (w *Writer) process(j job) Result {
	name := w.FileName(j.frame)
	res := Result{
		Frame:  j.frame,
		Path:   name,
		Width:  j.img.Rect.Dx(),
		Height: j.img.Rect.Dy(),
	}

	f, err := os.Create(filepath.Join(w.cfg.Dir, name))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := Encode(f, j.img, w.cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

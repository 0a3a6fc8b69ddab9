// Package ticklog writes simulation frames as zstd-compressed JSON lines.
package ticklog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/zeusync/platformer/internal/core/sim"
)

var ErrClosed = errors.New("ticklog: writer closed")

// Writer appends one JSON document per line to a zstd stream.
type Writer struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	lines  uint64
}

// NewWriter compresses onto dst. Close flushes the stream and closes dst if
// it is an io.Closer.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	w := &Writer{enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if c, ok := dst.(io.Closer); ok {
		w.closer = c
	}
	return w, nil
}

// Create opens <dir>/<name>.jsonl.zst, creating dir when needed. An existing
// file is truncated.
func Create(dir, name string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(Path(dir, name))
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Path is where Create puts the log for name.
func Path(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.jsonl.zst", name))
}

func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return ErrClosed
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return nil
}

// WriteFrame matches sim.FrameSink.
func (w *Writer) WriteFrame(f sim.Frame) error { return w.Write(f) }

// Lines counts documents written so far.
func (w *Writer) Lines() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}

	var errs []error
	errs = append(errs, w.w.Flush(), w.enc.Close())
	if w.closer != nil {
		errs = append(errs, w.closer.Close())
	}
	w.w = nil
	w.enc = nil
	return errors.Join(errs...)
}

// ReadFrames decodes every frame from a log produced by Writer.
func ReadFrames(r io.Reader) ([]sim.Frame, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var frames []sim.Frame
	jd := json.NewDecoder(dec)
	for {
		var f sim.Frame
		if err := jd.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, err
		}
		frames = append(frames, f)
	}
}

// ReadFile is ReadFrames over a file on disk.
func ReadFile(path string) ([]sim.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrames(f)
}

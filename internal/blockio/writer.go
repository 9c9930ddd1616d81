package blockio

import (
	"os"
	"sync"

	"github.com/go-faster/errors"
)

// Writer writes blocks sequentially, each right after previous one.
type Writer struct {
	dst Sink

	mux    sync.Mutex
	offset int64 // -1 before first MoveNext
	last   int
}

// NewWriter initializes Writer to dst.
func NewWriter(dst Sink) *Writer {
	w := &Writer{dst: dst}
	w.Reset()
	return w
}

// CreateWriter creates or truncates file and initializes Writer to it.
//
// If size is positive, file is preallocated to size bytes.
func CreateWriter(name string, size int64) (*Writer, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "truncate")
		}
	}
	return NewWriter(f), nil
}

// MoveNext positions writer after previously written block.
// First call positions writer at the beginning.
func (w *Writer) MoveNext() {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.offset == -1 {
		w.offset = 0
		return
	}
	w.offset += int64(w.last)
	w.last = 0
}

// Offset returns current position, or -1 if writer is not positioned.
func (w *Writer) Offset() int64 {
	w.mux.Lock()
	defer w.mux.Unlock()

	return w.offset
}

// Write writes block at current position.
func (w *Writer) Write(b Block) error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.offset == -1 {
		return ErrNotPositioned
	}
	if _, err := w.dst.WriteAt(b.Data, w.offset); err != nil {
		return errors.Wrapf(err, "write block %d at %d", b.Number, w.offset)
	}
	w.last = len(b.Data)

	return nil
}

// Reset returns writer to state before first MoveNext.
func (w *Writer) Reset() {
	w.mux.Lock()
	defer w.mux.Unlock()

	w.offset = -1
	w.last = 0
}

// Close syncs and closes underlying sink.
func (w *Writer) Close() error {
	if s, ok := w.dst.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			_ = w.dst.Close()
			return errors.Wrap(err, "sync")
		}
	}
	return w.dst.Close()
}

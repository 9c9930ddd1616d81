// Package blockio implements sequential block readers and writer over
// random access files.
package blockio

import (
	"io"
	"os"

	"github.com/go-faster/errors"
)

// Block is numbered chunk of data.
//
// Numbers start from 1 and are dense.
type Block struct {
	Number uint32
	Data   []byte
}

// Len returns length of block data.
func (b Block) Len() int { return len(b.Data) }

// Reader reads blocks sequentially.
type Reader interface {
	// MoveNext positions reader on next block, reporting false if
	// there are no more blocks. First call positions on first block.
	MoveNext() (bool, error)
	// Read reads block at current position.
	Read() (Block, error)
	// Reset returns reader to state before first MoveNext.
	Reset()
	Close() error
}

// Source is random access input.
type Source interface {
	io.ReaderAt
	io.Closer
}

// Sink is random access output.
type Sink interface {
	io.WriterAt
	io.Closer
}

// ErrNotPositioned means that Read or Write was called before MoveNext.
var ErrNotPositioned = errors.New("not positioned, MoveNext should be called first")

// readAt reads exactly len(buf) bytes at off.
func readAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		// Reading last bytes of file can return io.EOF.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrapf(err, "read %d bytes at %d", len(buf), off)
}

func open(name string) (*os.File, int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, errors.Wrap(err, "open")
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, errors.Wrap(err, "stat")
	}
	if !stat.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, errors.Errorf("%s is not a regular file", name)
	}
	return f, stat.Size(), nil
}

package blockio

import (
	"sync"

	"github.com/go-faster/errors"
)

// DataOptions configures DataReader.
type DataOptions struct {
	// Start is count of bytes skipped at the beginning of source.
	Start int64
	// End is count of bytes skipped at the end of source.
	End int64
}

// DataReader reads fixed-size blocks of raw data.
//
// Last block is truncated to remaining data. Empty data is read as
// single empty block.
type DataReader struct {
	src       Source
	size      int64
	blockSize int
	start     int64
	end       int64

	mux     sync.Mutex
	pos     int64 // -1 before first MoveNext
	current uint32
	length  int
}

// NewDataReader initializes DataReader of size bytes from src.
func NewDataReader(src Source, size int64, blockSize int, opt DataOptions) (*DataReader, error) {
	if blockSize <= 0 {
		return nil, errors.Errorf("invalid block size %d", blockSize)
	}
	if opt.Start < 0 || opt.End < 0 || opt.Start+opt.End > size {
		return nil, errors.Errorf("offsets %d and %d do not fit %d bytes", opt.Start, opt.End, size)
	}
	r := &DataReader{
		src:       src,
		size:      size,
		blockSize: blockSize,
		start:     opt.Start,
		end:       opt.End,
	}
	r.Reset()
	return r, nil
}

// OpenData opens DataReader for file.
func OpenData(name string, blockSize int) (*DataReader, error) {
	f, size, err := open(name)
	if err != nil {
		return nil, err
	}
	r, err := NewDataReader(f, size, blockSize, DataOptions{})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func (r *DataReader) left() int64 {
	return r.size - r.end - r.pos
}

// MoveNext implements Reader.
func (r *DataReader) MoveNext() (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	switch {
	case r.pos == -1:
		r.pos = r.start
		r.current = 1
	case r.left() <= int64(r.blockSize):
		return false, nil
	default:
		r.pos += int64(r.blockSize)
		r.current++
	}
	r.length = r.blockSize
	if left := r.left(); left < int64(r.blockSize) {
		r.length = int(left)
	}

	return true, nil
}

// Read implements Reader.
func (r *DataReader) Read() (Block, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	if r.pos == -1 {
		return Block{}, ErrNotPositioned
	}
	buf := make([]byte, r.length)
	if err := readAt(r.src, buf, r.pos); err != nil {
		return Block{}, errors.Wrapf(err, "block %d", r.current)
	}

	return Block{Number: r.current, Data: buf}, nil
}

// Reset implements Reader.
func (r *DataReader) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.pos = -1
	r.current = 0
	r.length = 0
}

// Close implements Reader.
func (r *DataReader) Close() error {
	return r.src.Close()
}

package blockio

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/go-faster/blockzip/container"
)

// ContainerReader reads members of block-addressable gzip container.
//
// Each member is read as is, with block number from its BlockInfo.
type ContainerReader struct {
	src  Source
	size int64

	mux     sync.Mutex
	pos     int64 // -1 before first MoveNext
	current uint32
	length  int64
	last    bool
}

// NewContainerReader initializes ContainerReader of size bytes from src.
func NewContainerReader(src Source, size int64) *ContainerReader {
	r := &ContainerReader{
		src:  src,
		size: size,
	}
	r.Reset()
	return r
}

// OpenContainer opens ContainerReader for file.
func OpenContainer(name string) (*ContainerReader, error) {
	f, size, err := open(name)
	if err != nil {
		return nil, err
	}
	return NewContainerReader(f, size), nil
}

// MoveNext implements Reader.
func (r *ContainerReader) MoveNext() (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	if r.last {
		return false, nil
	}
	pos := int64(0)
	if r.pos != -1 {
		pos = r.pos + r.length
	}

	h, headerSize, err := container.ReadHeader(r.src, pos, r.size-pos)
	if err != nil {
		return false, errors.Wrapf(err, "member at %d", pos)
	}
	info, ok := h.BlockInfo()
	if !ok {
		return false, errors.Wrapf(container.ErrFormat, "member at %d: no block info", pos)
	}
	length := int64(headerSize) + int64(info.DataSize) + container.TailSize
	if pos+length > r.size {
		return false, errors.Wrapf(container.ErrFormat,
			"member at %d: %d bytes overflow %d bytes of file", pos, length, r.size,
		)
	}

	r.pos = pos
	r.length = length
	r.current = info.Number
	r.last = pos+length >= r.size

	return true, nil
}

// Read implements Reader.
func (r *ContainerReader) Read() (Block, error) {
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
func (r *ContainerReader) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.pos = -1
	r.current = 0
	r.length = 0
	r.last = false
}

// Close implements Reader.
func (r *ContainerReader) Close() error {
	return r.src.Close()
}

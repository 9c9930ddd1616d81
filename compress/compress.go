// Package compress implements compression of blocks into single gzip
// members and back.
package compress

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/gzip"
)

//go:generate go run github.com/dmarkham/enumer -type Level -trimprefix Level -transform snake -text -output level_enum.go

// Level is compression level.
type Level byte

const (
	LevelOptimal Level = iota
	LevelFastest
	LevelNoCompression
	LevelSmallestSize
)

func (l Level) gzip() int {
	switch l {
	case LevelFastest:
		return gzip.BestSpeed
	case LevelNoCompression:
		return gzip.NoCompression
	case LevelSmallestSize:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

const (
	tailSize = 8
	// maxSizeHint limits preallocation for decompressed data, because
	// ISIZE of corrupted member can be arbitrary.
	maxSizeHint = 1024 * 1024 * 128 // 128MB
)

// Codec compresses and decompresses single gzip members.
//
// Safe for concurrent use, encoders and decoders are pooled.
type Codec struct {
	level   Level
	writers sync.Pool
	readers sync.Pool
}

// NewCodec initializes Codec with provided level.
func NewCodec(l Level) (*Codec, error) {
	if !l.IsALevel() {
		return nil, errors.Errorf("unknown level %d", l)
	}
	c := &Codec{level: l}
	c.writers.New = func() any {
		w, err := gzip.NewWriterLevel(nil, l.gzip())
		if err != nil {
			panic(err)
		}
		return w
	}
	c.readers.New = func() any {
		return new(gzip.Reader)
	}
	return c, nil
}

// Level of compression.
func (c *Codec) Level() Level { return c.level }

// Compress returns src compressed as single gzip member.
func (c *Codec) Compress(src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(src)/2+64))

	w := c.writers.Get().(*gzip.Writer)
	defer c.writers.Put(w)
	w.Reset(buf)

	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "close")
	}

	return buf.Bytes(), nil
}

// Decompress returns data of single gzip member stored in src.
//
// Checksum and size from member tail are verified.
func (c *Codec) Decompress(src []byte) ([]byte, error) {
	r := c.readers.Get().(*gzip.Reader)
	defer c.readers.Put(r)
	if err := r.Reset(bytes.NewReader(src)); err != nil {
		return nil, errors.Wrap(err, "header")
	}
	r.Multistream(false)

	out := bytes.NewBuffer(make([]byte, 0, sizeHint(src)))
	if _, err := out.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	if err := r.Close(); err != nil {
		return nil, errors.Wrap(err, "close")
	}

	return out.Bytes(), nil
}

// sizeHint returns expected size of decompressed data from ISIZE.
func sizeHint(src []byte) int {
	if len(src) < tailSize {
		return 0
	}
	n := int(binary.LittleEndian.Uint32(src[len(src)-4:]))
	if n > maxSizeHint {
		return maxSizeHint
	}
	// Extra byte to get EOF without growing.
	return n + 1
}

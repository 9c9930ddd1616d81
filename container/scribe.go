package container

import (
	"math"

	"github.com/go-faster/errors"
)

// Scribe stamps single-block gzip members with container metadata.
type Scribe struct {
	name        string
	blockSize   uint32
	totalBlocks uint32
	fileSize    uint64
}

// NewScribe initializes Scribe for compression of file with provided
// name and size into blocks of blockSize bytes.
//
// Empty file is stored as single empty block.
func NewScribe(name string, fileSize int64, blockSize int) (*Scribe, error) {
	if blockSize <= 0 {
		return nil, errors.Errorf("invalid block size %d", blockSize)
	}
	if fileSize < 0 {
		return nil, errors.Errorf("invalid file size %d", fileSize)
	}
	total := (fileSize + int64(blockSize) - 1) / int64(blockSize)
	if total == 0 {
		total = 1
	}
	if total > math.MaxUint32 || blockSize > math.MaxUint32 {
		return nil, errors.Errorf("%d blocks of %d bytes overflow block numbering", total, blockSize)
	}
	return &Scribe{
		name:        name,
		blockSize:   uint32(blockSize),
		totalBlocks: uint32(total),
		fileSize:    uint64(fileSize),
	}, nil
}

// ScribeFromHeader initializes Scribe from header of first member
// of container.
func ScribeFromHeader(h *Header) (*Scribe, error) {
	orig, ok := h.OriginalInfo()
	if !ok {
		return nil, formatErr("original info field not found")
	}
	if orig.BlockSize == 0 || orig.TotalBlocks == 0 {
		return nil, formatErrf("inconsistent original info %+v", orig)
	}
	return &Scribe{
		name:        h.Name,
		blockSize:   orig.BlockSize,
		totalBlocks: orig.TotalBlocks,
		fileSize:    orig.FileSize,
	}, nil
}

// Name of original file.
func (s *Scribe) Name() string { return s.name }

// BlockSize returns size of uncompressed blocks.
func (s *Scribe) BlockSize() int { return int(s.blockSize) }

// TotalBlocks returns count of blocks.
func (s *Scribe) TotalBlocks() int { return int(s.totalBlocks) }

// FileSize returns original file size.
func (s *Scribe) FileSize() int64 { return int64(s.fileSize) }

// OriginalInfo returns field describing original file.
func (s *Scribe) OriginalInfo() OriginalInfo {
	return OriginalInfo{
		BlockSize:   s.blockSize,
		TotalBlocks: s.totalBlocks,
		FileSize:    s.fileSize,
	}
}

// ScribeBlock replaces header of single gzip member with header that
// carries BlockInfo for block n. First block also gets original name
// and OriginalInfo.
//
// Payload and tail are retained.
func (s *Scribe) ScribeBlock(member []byte, n uint32) ([]byte, error) {
	info, err := ParseInfo(member)
	if err != nil {
		return nil, errors.Wrap(err, "parse member")
	}
	payload := info.PayloadSize(len(member))
	if payload < 0 {
		return nil, formatErrf("member of %d bytes has %d bytes header", len(member), info.HeaderSize)
	}

	h := info.Header
	h.Extra = append([]Extra(nil), h.Extra...)
	if n == 1 {
		h.SetName(s.name)
		if err := h.AddExtra(s.OriginalInfo()); err != nil {
			return nil, err
		}
	}
	if err := h.AddExtra(BlockInfo{
		Number:   n,
		DataSize: uint32(payload),
	}); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	b := Buffer{Buf: make([]byte, 0, h.Size()+payload+TailSize)}
	h.Encode(&b)
	b.PutRaw(member[info.HeaderSize:])

	return b.Buf, nil
}

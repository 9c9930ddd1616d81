// Package container implements the block-addressable gzip container format.
//
// Every block of the original file is stored as an independent gzip member.
// Member headers carry BlockInfo extra field with block number and payload
// size, the first member additionally carries OriginalInfo with block size,
// total block count and original file size.
package container

import (
	"encoding/binary"

	"github.com/go-faster/errors"
)

const (
	ID1 byte = 0x1F
	ID2 byte = 0x8B

	// MethodDeflate is the only compression method of gzip.
	MethodDeflate byte = 8

	// HeaderMinSize is size of fixed part of member header.
	HeaderMinSize = 10
	// TailSize is size of CRC32 and ISIZE trailer.
	TailSize = 8
	// MinSize is minimal size of valid member.
	MinSize = HeaderMinSize + TailSize
)

// ErrFormat reports that data does not match the container format.
var ErrFormat = errors.New("invalid gzip container format")

var bin = binary.LittleEndian

func formatErr(msg string) error {
	return errors.Wrap(ErrFormat, msg)
}

func formatErrf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

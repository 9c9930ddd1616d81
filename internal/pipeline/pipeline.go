// Package pipeline implements concurrent block pipeline: shared state,
// block processor and worker dispatcher.
package pipeline

import (
	"context"

	"github.com/go-faster/blockzip/internal/blockio"
)

//go:generate go run github.com/dmarkham/enumer -type Mode -transform snake -output mode_enum.go

// Mode of processing.
type Mode byte

const (
	Compress Mode = iota
	Decompress
)

// Codec compresses and decompresses single blocks.
type Codec interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// Writer writes blocks sequentially.
type Writer interface {
	// MoveNext positions writer after previously written block.
	MoveNext()
	// Offset returns current position.
	Offset() int64
	Write(b blockio.Block) error
	Close() error
}

// Progress receives pipeline progress.
type Progress interface {
	// SetOverallValue sets total count of steps.
	SetOverallValue(v int64)
	// IncrementValue reports one completed step.
	IncrementValue()
}

type nopProgress struct{}

func (nopProgress) SetOverallValue(int64) {}
func (nopProgress) IncrementValue()       {}

// StepsPerBlock is count of progress steps per block: read, process
// and write.
const StepsPerBlock = 3

// BlockProcessor performs pipeline actions.
type BlockProcessor interface {
	ReadBlock() error
	ProcessBlock() error
	WriteBlock(ctx context.Context) error
	Close() error
}

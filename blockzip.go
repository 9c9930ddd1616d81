// Package blockzip implements parallel compression of files into
// block-addressable gzip containers and decompression back.
//
// Input is split into fixed-size blocks that are compressed by pool of
// workers, each block becoming independent gzip member that carries its
// number and compressed size in header extra field. First member also
// describes original file, so container can be decompressed in parallel
// and restored exactly.
package blockzip

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/go-faster/blockzip/compress"
	"github.com/go-faster/blockzip/internal/memlimit"
)

//go:generate go run github.com/dmarkham/enumer -type Mode -trimprefix Mode -transform snake -text -output mode_enum.go

// Mode of run.
type Mode byte

const (
	// ModeCompress compresses file into container.
	ModeCompress Mode = iota
	// ModeDecompress restores file from container.
	ModeDecompress
)

const (
	// DefaultBlockSize is default size of uncompressed block.
	DefaultBlockSize = 1024 * 1024 // 1MB
	// DefaultMemoryCeiling is default upper bound of memory cap.
	DefaultMemoryCeiling = memlimit.DefaultCeiling
)

// Progress receives run progress.
//
// Overall value is set once to three steps per block: read, process and
// write, each step is reported by IncrementValue.
type Progress interface {
	SetOverallValue(v int64)
	IncrementValue()
}

// MemoryOracle reports whether there is enough memory to read more
// blocks.
type MemoryOracle interface {
	Enough() bool
}

// Options for Run.
type Options struct {
	Logger *zap.Logger

	Mode   Mode
	Input  string
	Output string

	// BlockSize is size of uncompressed block, used only for compression.
	// Decompression uses block size stored in container.
	BlockSize int
	// Workers is count of workers, runtime.NumCPU() by default.
	Workers int
	// Level of compression.
	Level compress.Level

	// MemoryCeiling is upper bound of memory cap. Memory cap is half of
	// physical memory, but not more than ceiling.
	MemoryCeiling uint64
	// Memory overrides memory oracle that is derived from cap.
	Memory MemoryOracle

	Progress Progress

	// Instrumentation.
	OpenTelemetryInstrumentation bool
	TracerProvider               trace.TracerProvider
}

// Defaults for zero fields.
func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.BlockSize == 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MemoryCeiling == 0 {
		o.MemoryCeiling = DefaultMemoryCeiling
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
}

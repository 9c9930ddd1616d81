// Package otelbz provides OpenTelemetry attributes of blockzip runs.
package otelbz

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	RunIDKey       = attribute.Key("blockzip.run.id")
	ModeKey        = attribute.Key("blockzip.mode")
	BlocksKey      = attribute.Key("blockzip.blocks")
	BlockSizeKey   = attribute.Key("blockzip.block.size")
	FileSizeKey    = attribute.Key("blockzip.file.size")
	WorkersKey     = attribute.Key("blockzip.workers")
	LastWrittenKey = attribute.Key("blockzip.block.last_written")
)

// RunID attribute.
func RunID(v string) attribute.KeyValue {
	return RunIDKey.String(v)
}

// Mode attribute.
func Mode(v string) attribute.KeyValue {
	return ModeKey.String(v)
}

// Blocks attribute, total count of blocks.
func Blocks(v int) attribute.KeyValue {
	return BlocksKey.Int(v)
}

// BlockSize attribute.
func BlockSize(v int) attribute.KeyValue {
	return BlockSizeKey.Int(v)
}

// FileSize attribute, size of original file.
func FileSize(v int64) attribute.KeyValue {
	return FileSizeKey.Int64(v)
}

// Workers attribute.
func Workers(v int) attribute.KeyValue {
	return WorkersKey.Int(v)
}

// LastWritten attribute, number of last written block.
func LastWritten(v int64) attribute.KeyValue {
	return LastWrittenKey.Int64(v)
}

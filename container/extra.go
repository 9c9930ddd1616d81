package container

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ID is extra field subfield identifier (SI1, SI2).
type ID [2]byte

func (id ID) String() string {
	return fmt.Sprintf("0x%02X%02X", id[0], id[1])
}

var (
	// IDBlockInfo identifies BlockInfo field.
	IDBlockInfo = ID{0xA0, 0xC0}
	// IDOriginalInfo identifies OriginalInfo field.
	IDOriginalInfo = ID{0xA0, 0xC1}
)

const (
	extraFieldHeaderSize = 2 + 2

	blockInfoSize    = 4 + 4
	originalInfoSize = 4 + 4 + 8
)

// Extra is extra field record of member header.
//
// Implemented by BlockInfo, OriginalInfo and Opaque.
type Extra interface {
	Encoder

	// ExtraID returns subfield identifier.
	ExtraID() ID
	// Len returns length of field payload.
	Len() int

	extra()
}

// BlockInfo describes block stored in member. Present in every member.
type BlockInfo struct {
	Number   uint32
	DataSize uint32 // compressed payload size, without header and tail
}

func (BlockInfo) extra() {}
func (BlockInfo) ExtraID() ID { return IDBlockInfo }
func (BlockInfo) Len() int { return blockInfoSize }
func (f BlockInfo) String() string {
	return fmt.Sprintf("BlockInfo(#%d, %d bytes)", f.Number, f.DataSize)
}

// Encode implements Encoder.
func (f BlockInfo) Encode(b *Buffer) {
	b.PutRaw(IDBlockInfo[:])
	b.PutUInt16(blockInfoSize)
	b.PutUInt32(f.Number)
	b.PutUInt32(f.DataSize)
}

// OriginalInfo describes original file. Present only in first member.
type OriginalInfo struct {
	BlockSize   uint32
	TotalBlocks uint32
	FileSize    uint64
}

func (OriginalInfo) extra() {}
func (OriginalInfo) ExtraID() ID { return IDOriginalInfo }
func (OriginalInfo) Len() int { return originalInfoSize }

// Encode implements Encoder.
func (f OriginalInfo) Encode(b *Buffer) {
	b.PutRaw(IDOriginalInfo[:])
	b.PutUInt16(originalInfoSize)
	b.PutUInt32(f.BlockSize)
	b.PutUInt32(f.TotalBlocks)
	b.PutUInt64(f.FileSize)
}

// Opaque is extra field with unknown identifier, kept as is.
type Opaque struct {
	ID   ID
	Data []byte
}

func (Opaque) extra() {}
func (f Opaque) ExtraID() ID { return f.ID }
func (f Opaque) Len() int { return len(f.Data) }

// Encode implements Encoder.
func (f Opaque) Encode(b *Buffer) {
	b.PutRaw(f.ID[:])
	b.PutUInt16(uint16(len(f.Data)))
	b.PutRaw(f.Data)
}

// extraSize returns encoded size of fields.
func extraSize(fields []Extra) int {
	var n int
	for _, f := range fields {
		n += extraFieldHeaderSize + f.Len()
	}
	return n
}

// DecodeExtra decodes all extra field records from buf.
func DecodeExtra(buf []byte) ([]Extra, error) {
	var (
		fields []Extra
		pos    int
	)
	for pos < len(buf) {
		f, n, err := decodeField(buf[pos:])
		if err != nil {
			return nil, errors.Wrapf(err, "field at %d", pos)
		}
		fields = append(fields, f)
		pos += n
	}
	return fields, nil
}

func decodeField(buf []byte) (Extra, int, error) {
	if len(buf) < extraFieldHeaderSize {
		return nil, 0, formatErrf("truncated extra field header (%d bytes)", len(buf))
	}
	id := ID{buf[0], buf[1]}
	length := int(bin.Uint16(buf[2:4]))
	total := extraFieldHeaderSize + length
	if total > len(buf) {
		return nil, 0, formatErrf("extra field %s length %d overflows %d", id, length, len(buf)-extraFieldHeaderSize)
	}
	data := buf[extraFieldHeaderSize:total]

	switch id {
	case IDBlockInfo:
		if length != blockInfoSize {
			return nil, 0, formatErrf("block info length %d", length)
		}
		return BlockInfo{
			Number:   bin.Uint32(data[0:4]),
			DataSize: bin.Uint32(data[4:8]),
		}, total, nil
	case IDOriginalInfo:
		if length != originalInfoSize {
			return nil, 0, formatErrf("original info length %d", length)
		}
		return OriginalInfo{
			BlockSize:   bin.Uint32(data[0:4]),
			TotalBlocks: bin.Uint32(data[4:8]),
			FileSize:    bin.Uint64(data[8:16]),
		}, total, nil
	default:
		return Opaque{
			ID:   id,
			Data: append([]byte(nil), data...),
		}, total, nil
	}
}

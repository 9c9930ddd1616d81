package container

import (
	"hash/crc32"
	"math"
	"strings"
	"time"
)

// MaxExtraSize is maximum total size of extra field records (XLEN).
const MaxExtraSize = math.MaxUint16

// Flag is member header flag bitset (FLG).
type Flag byte

const (
	FlagText    Flag = 1 << 0
	FlagHCRC    Flag = 1 << 1
	FlagExtra   Flag = 1 << 2
	FlagName    Flag = 1 << 3
	FlagComment Flag = 1 << 4
)

// Has reports whether all bits of v are set.
func (f Flag) Has(v Flag) bool { return f&v == v }

// OS is operating system identifier of member header.
type OS byte

const (
	OSFAT     OS = 0
	OSUnix    OS = 3
	OSNTFS    OS = 11
	OSUnknown OS = 255
)

// Header of gzip member.
type Header struct {
	Method    byte
	Flags     Flag
	MTime     uint32 // unix seconds, zero if unknown
	XFL       byte
	OS        OS
	Extra     []Extra
	Name      string
	Comment   string
	HeaderCRC uint16 // only read, recomputed on encoding
}

// ModTime returns modification time, zero if not set.
func (h *Header) ModTime() time.Time {
	if h.MTime == 0 {
		return time.Time{}
	}
	return time.Unix(int64(h.MTime), 0)
}

// SetModTime sets modification time.
func (h *Header) SetModTime(t time.Time) {
	if t.IsZero() || t.Unix() < 0 {
		h.MTime = 0
		return
	}
	h.MTime = uint32(t.Unix())
}

// SetName sets original file name and NAME flag.
func (h *Header) SetName(name string) {
	h.Name = name
	h.Flags |= FlagName
}

// SetComment sets comment and COMMENT flag.
func (h *Header) SetComment(comment string) {
	h.Comment = comment
	h.Flags |= FlagComment
}

// AddExtra appends extra field and sets EXTRA flag.
//
// Field that does not fit into MaxExtraSize is not added.
func (h *Header) AddExtra(f Extra) error {
	if n := extraSize(h.Extra) + extraFieldHeaderSize + f.Len(); n > MaxExtraSize {
		return formatErrf("extra field %s: %d bytes of extra exceed %d", f.ExtraID(), n, MaxExtraSize)
	}
	h.Extra = append(h.Extra, f)
	h.Flags |= FlagExtra
	return nil
}

// Validate checks that header can be encoded.
func (h *Header) Validate() error {
	if n := extraSize(h.Extra); n > MaxExtraSize {
		return formatErrf("%d bytes of extra exceed %d", n, MaxExtraSize)
	}
	if strings.IndexByte(h.Name, 0) >= 0 {
		return formatErr("name contains zero byte")
	}
	if strings.IndexByte(h.Comment, 0) >= 0 {
		return formatErr("comment contains zero byte")
	}
	return nil
}

// BlockInfo returns first BlockInfo field if any.
func (h *Header) BlockInfo() (BlockInfo, bool) {
	for _, f := range h.Extra {
		if v, ok := f.(BlockInfo); ok {
			return v, true
		}
	}
	return BlockInfo{}, false
}

// OriginalInfo returns first OriginalInfo field if any.
func (h *Header) OriginalInfo() (OriginalInfo, bool) {
	for _, f := range h.Extra {
		if v, ok := f.(OriginalInfo); ok {
			return v, true
		}
	}
	return OriginalInfo{}, false
}

// Field returns first extra field with provided id.
func (h *Header) Field(id ID) (Extra, bool) {
	for _, f := range h.Extra {
		if f.ExtraID() == id {
			return f, true
		}
	}
	return nil, false
}

// Size returns encoded header size for current flags and fields.
func (h *Header) Size() int {
	n := HeaderMinSize
	if h.Flags.Has(FlagExtra) {
		n += 2 + extraSize(h.Extra)
	}
	if h.Flags.Has(FlagName) {
		n += len(h.Name) + 1
	}
	if h.Flags.Has(FlagComment) {
		n += len(h.Comment) + 1
	}
	if h.Flags.Has(FlagHCRC) {
		n += 2
	}
	return n
}

// Encode implements Encoder. Header must be valid, see Validate.
func (h *Header) Encode(b *Buffer) {
	start := len(b.Buf)
	b.PutByte(ID1)
	b.PutByte(ID2)
	b.PutByte(h.Method)
	b.PutByte(byte(h.Flags))
	b.PutUInt32(h.MTime)
	b.PutByte(h.XFL)
	b.PutByte(byte(h.OS))
	if h.Flags.Has(FlagExtra) {
		b.PutUInt16(uint16(extraSize(h.Extra)))
		for _, f := range h.Extra {
			f.Encode(b)
		}
	}
	if h.Flags.Has(FlagName) {
		b.PutCString(h.Name)
	}
	if h.Flags.Has(FlagComment) {
		b.PutCString(h.Comment)
	}
	if h.Flags.Has(FlagHCRC) {
		b.PutUInt16(uint16(crc32.ChecksumIEEE(b.Buf[start:])))
	}
}

// Bytes returns encoded header.
func (h *Header) Bytes() []byte {
	b := Buffer{Buf: make([]byte, 0, h.Size())}
	h.Encode(&b)
	return b.Buf
}

// Tail is member trailer.
type Tail struct {
	CRC32 uint32
	Size  uint32 // original size modulo 2^32
}

// Encode implements Encoder.
func (t Tail) Encode(b *Buffer) {
	b.PutUInt32(t.CRC32)
	b.PutUInt32(t.Size)
}

func decodeTail(buf []byte) Tail {
	return Tail{
		CRC32: bin.Uint32(buf[0:4]),
		Size:  bin.Uint32(buf[4:8]),
	}
}

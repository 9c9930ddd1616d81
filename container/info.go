package container

import (
	"bufio"
	"bytes"
	"hash/crc32"
	"io"

	"github.com/go-faster/errors"
)

// Info is decoded member header and tail.
type Info struct {
	Header
	// HeaderSize is decoded header size in bytes.
	HeaderSize int
	Tail       Tail
}

// PayloadSize returns size of compressed payload of member with provided
// total size.
func (i *Info) PayloadSize(memberSize int) int {
	return memberSize - i.HeaderSize - TailSize
}

// ParseInfo decodes Info of single member stored in data.
func ParseInfo(data []byte) (*Info, error) {
	return ReadInfo(bytes.NewReader(data), 0, int64(len(data)))
}

// ReadHeader decodes member header starting at off, reading no more
// than limit bytes. Returns decoded header size.
func ReadHeader(r io.ReaderAt, off, limit int64) (*Header, int, error) {
	d := &headerDecoder{
		r: bufio.NewReaderSize(io.NewSectionReader(r, off, limit), defaultReaderSize),
	}
	h := &Header{}
	if err := d.decode(h); err != nil {
		return nil, 0, errors.Wrap(err, "header")
	}
	return h, d.n, nil
}

// ReadInfo decodes member header starting at off and tail stored
// at the end of size bytes starting from off.
func ReadInfo(r io.ReaderAt, off, size int64) (*Info, error) {
	if size < MinSize {
		return nil, formatErrf("size %d is less than minimal %d", size, MinSize)
	}

	h, n, err := ReadHeader(r, off, size-TailSize)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Header:     *h,
		HeaderSize: n,
	}

	var tail [TailSize]byte
	if _, err := r.ReadAt(tail[:], off+size-TailSize); err != nil {
		return nil, errors.Wrap(err, "read tail")
	}
	info.Tail = decodeTail(tail[:])

	return info, nil
}

const defaultReaderSize = 512

// headerDecoder decodes header from buffered reader, counting consumed
// bytes and their CRC32.
type headerDecoder struct {
	r   *bufio.Reader
	n   int
	crc uint32
}

func (d *headerDecoder) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, formatErrf("truncated header at %d", d.n)
		}
		return nil, errors.Wrap(err, "read")
	}
	d.n += n
	d.crc = crc32.Update(d.crc, crc32.IEEETable, buf)
	return buf, nil
}

func (d *headerDecoder) cstring() (string, error) {
	s, err := d.r.ReadString(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", formatErrf("unterminated string at %d", d.n)
		}
		return "", errors.Wrap(err, "read")
	}
	d.n += len(s)
	d.crc = crc32.Update(d.crc, crc32.IEEETable, []byte(s))
	return s[:len(s)-1], nil
}

func (d *headerDecoder) decode(h *Header) error {
	fixed, err := d.read(HeaderMinSize)
	if err != nil {
		return err
	}
	if fixed[0] != ID1 || fixed[1] != ID2 {
		return formatErrf("bad magic 0x%02X%02X", fixed[0], fixed[1])
	}
	h.Method = fixed[2]
	h.Flags = Flag(fixed[3])
	h.MTime = bin.Uint32(fixed[4:8])
	h.XFL = fixed[8]
	h.OS = OS(fixed[9])
	h.Extra = nil

	if h.Flags.Has(FlagExtra) {
		xlen, err := d.read(2)
		if err != nil {
			return errors.Wrap(err, "extra length")
		}
		raw, err := d.read(int(bin.Uint16(xlen)))
		if err != nil {
			return errors.Wrap(err, "extra")
		}
		if h.Extra, err = DecodeExtra(raw); err != nil {
			return errors.Wrap(err, "extra")
		}
	}
	if h.Flags.Has(FlagName) {
		if h.Name, err = d.cstring(); err != nil {
			return errors.Wrap(err, "name")
		}
	}
	if h.Flags.Has(FlagComment) {
		if h.Comment, err = d.cstring(); err != nil {
			return errors.Wrap(err, "comment")
		}
	}
	if h.Flags.Has(FlagHCRC) {
		expected := uint16(d.crc)
		crc, err := d.read(2)
		if err != nil {
			return errors.Wrap(err, "header crc")
		}
		h.HeaderCRC = bin.Uint16(crc)
		if h.HeaderCRC != expected {
			return formatErrf("header crc 0x%04X, expected 0x%04X", h.HeaderCRC, expected)
		}
	}

	return nil
}

package container

// Buffer implements container binary encoding.
type Buffer struct {
	Buf []byte
}

// Encoder implements encoding to Buffer.
type Encoder interface {
	Encode(b *Buffer)
}

// Encode value that implements Encoder.
func (b *Buffer) Encode(e Encoder) {
	e.Encode(b)
}

// Reset buffer to zero length.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
}

// PutRaw writes v as raw bytes to buffer.
func (b *Buffer) PutRaw(v []byte) {
	b.Buf = append(b.Buf, v...)
}

// PutByte writes single byte.
func (b *Buffer) PutByte(x byte) {
	b.Buf = append(b.Buf, x)
}

func (b *Buffer) PutUInt16(x uint16) {
	var buf [2]byte
	bin.PutUint16(buf[:], x)
	b.Buf = append(b.Buf, buf[:]...)
}

func (b *Buffer) PutUInt32(x uint32) {
	var buf [4]byte
	bin.PutUint32(buf[:], x)
	b.Buf = append(b.Buf, buf[:]...)
}

func (b *Buffer) PutUInt64(x uint64) {
	var buf [8]byte
	bin.PutUint64(buf[:], x)
	b.Buf = append(b.Buf, buf[:]...)
}

// PutCString writes s followed by terminating zero byte.
func (b *Buffer) PutCString(s string) {
	b.Buf = append(b.Buf, s...)
	b.Buf = append(b.Buf, 0)
}

package binn

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// bytesBuilder is a growable io.Writer over a byte slice.
type bytesBuilder struct {
	Buf []byte
}

var _ io.Writer = (*bytesBuilder)(nil)

func (bb *bytesBuilder) Write(b []byte) (int, error) {
	bb.Buf = append(bb.Buf, b...)
	return len(b), nil
}

func (bb *bytesBuilder) WriteByte(v byte) error {
	bb.Buf = append(bb.Buf, v)
	return nil
}

// byteBuf writes into a preallocated region. Callers check capacity up front,
// so the append methods never fail.
type byteBuf struct {
	Buf []byte
	Off int
}

func (b *byteBuf) AppendRaw(v []byte) {
	copy(b.Buf[b.Off:], v)
	b.Off += len(v)
}

func (b *byteBuf) AppendString(v string) {
	copy(b.Buf[b.Off:], v)
	b.Off += len(v)
}

func (b *byteBuf) AppendByte(v byte) {
	b.Buf[b.Off] = v
	b.Off++
}

func (b *byteBuf) AppendUint16(v uint16) {
	binary.BigEndian.PutUint16(b.Buf[b.Off:], v)
	b.Off += 2
}

func (b *byteBuf) AppendUint32(v uint32) {
	binary.BigEndian.PutUint32(b.Buf[b.Off:], v)
	b.Off += 4
}

func (b *byteBuf) AppendUint64(v uint64) {
	binary.BigEndian.PutUint64(b.Buf[b.Off:], v)
	b.Off += 8
}

func (b *byteBuf) AppendType(t Type) {
	b.Off += t.put(b.Buf[b.Off:])
}

func (b *byteBuf) AppendSize(s Size) {
	b.Off += s.put(b.Buf[b.Off:])
}

// byteDecoder reads big-endian fields from Buf, reporting offsets relative
// to Orig in errors. Buf is always a suffix of Orig.
//
// Trusted decoders skip the element walk of nested containers; they are used
// for bytes that have already been validated or were written by this package.
type byteDecoder struct {
	Orig    []byte
	Buf     []byte
	Trusted bool
}

func makeByteDecoder(buf []byte) byteDecoder {
	return byteDecoder{Orig: buf, Buf: buf}
}

func (d *byteDecoder) Off() int {
	return len(d.Orig) - len(d.Buf)
}

func (d *byteDecoder) Empty() bool {
	return len(d.Buf) == 0
}

func (d *byteDecoder) Type() (Type, error) {
	t, n, ok := decodeType(d.Buf)
	if !ok {
		return Type{}, dataErrf(d.Orig, d.Off(), ErrInvalidData, "truncated type tag")
	}
	d.Buf = d.Buf[n:]
	return t, nil
}

func (d *byteDecoder) Size() (Size, error) {
	s, n, ok := decodeSize(d.Buf)
	if !ok {
		return Size{}, dataErrf(d.Orig, d.Off(), ErrInvalidData, "truncated size")
	}
	d.Buf = d.Buf[n:]
	return s, nil
}

func (d *byteDecoder) Raw(n int) ([]byte, error) {
	if len(d.Buf) < n {
		return nil, dataErrf(d.Orig, d.Off(), ErrInvalidData, "not enough data: %d bytes remaining, %d wanted", len(d.Buf), n)
	}
	v := d.Buf[:n:n]
	d.Buf = d.Buf[n:]
	return v, nil
}

// Fixed reads an n-byte big-endian unsigned number, n being 0, 1, 2, 4 or 8.
func (d *byteDecoder) Fixed(n int) (uint64, error) {
	b, err := d.Raw(n)
	if err != nil {
		return 0, err
	}
	switch n {
	case 0:
		return 0, nil
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	default:
		panic("unreachable")
	}
}

// VarBytes reads a size-prefixed payload.
func (d *byteDecoder) VarBytes() ([]byte, error) {
	s, err := d.Size()
	if err != nil {
		return nil, err
	}
	return d.Raw(s.Value())
}

// Text reads a size-prefixed UTF-8 payload followed by a 0x00 terminator.
// The terminator is consumed but not returned.
func (d *byteDecoder) Text() ([]byte, error) {
	s, err := d.Size()
	if err != nil {
		return nil, err
	}
	off := d.Off()
	n := s.Value()
	b, err := d.Raw(n + 1)
	if err != nil {
		return nil, err
	}
	if b[n] != 0 {
		return nil, dataErrf(d.Orig, off+n, ErrInvalidData, "missing text terminator")
	}
	b = b[:n:n]
	if !utf8.Valid(b) {
		return nil, dataErrf(d.Orig, off, ErrInvalidData, "invalid UTF-8 text")
	}
	return b, nil
}

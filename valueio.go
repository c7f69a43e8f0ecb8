package binn

import (
	"fmt"
	"unicode/utf8"
)

// Deserialize decodes one value from the start of b. Trailing bytes after
// the value are ignored. Text, blob and container values reference b.
//
// Containers are fully validated, including every nested container.
func Deserialize(b []byte) (Value, error) {
	v, _, err := DeserializePrefix(b)
	return v, err
}

// DeserializePrefix is like Deserialize but also returns the number of bytes
// the value occupies in b. This can differ from TotalSize when the input
// uses a wider tag or size field than necessary.
func DeserializePrefix(b []byte) (Value, int, error) {
	d := makeByteDecoder(b)
	v, err := d.Value()
	if err != nil {
		return Value{}, 0, err
	}
	return v, d.Off(), nil
}

// TotalSize returns the number of bytes Encode writes for v.
func (v Value) TotalSize() int {
	if v.kind.IsContainer() {
		return len(v.c.Bytes())
	}
	t := v.Type()
	if n, ok := t.Storage.FixedSize(); ok {
		return t.Size() + n
	}
	n := len(v.data)
	total := t.Size() + sizeWidth(n) + n
	if t.Storage == StorageString {
		total++
	}
	return total
}

func (v Value) checkEncodable() error {
	if !v.sub.Valid() {
		return &OutOfRangeError{Min: 0, Max: MaxSubType, Value: int64(v.sub)}
	}
	if v.kind >= kindCount {
		return ErrInvalidType
	}
	if t := v.Type(); v.kind.IsUser() {
		if k, _ := kindOf(t); k != v.kind {
			return fmt.Errorf("%w: %v is not a user type", ErrInvalidType, t)
		}
	}
	if v.kind.IsContainer() {
		if v.c.Detached() {
			return ErrDetached
		}
	} else if len(v.data) > MaxSize {
		return ErrTooLarge
	} else if v.kind.IsText() && !utf8.Valid(v.data) {
		return fmt.Errorf("%w: invalid UTF-8 text", ErrInvalidData)
	}
	return nil
}

// Encode writes v into the start of dst and returns the number of bytes
// written. If dst is too short, nothing is written and a *SmallBufferError
// reports the missing byte count.
func (v Value) Encode(dst []byte) (int, error) {
	if err := v.checkEncodable(); err != nil {
		return 0, err
	}
	total := v.TotalSize()
	if len(dst) < total {
		return 0, &SmallBufferError{Required: total - len(dst)}
	}
	return v.put(dst, v.c.Bytes()), nil
}

// AppendEncoded appends the encoding of v to buf.
func (v Value) AppendEncoded(buf []byte) ([]byte, error) {
	if err := v.checkEncodable(); err != nil {
		return buf, err
	}
	n := len(buf)
	buf = grow(buf, v.TotalSize())
	v.put(buf[n:], v.c.Bytes())
	return buf, nil
}

// put writes v assuming dst has room. image is the container image for
// container values; it is passed separately because the handle may already
// be detached by the time the bytes are copied.
func (v Value) put(dst []byte, image []byte) int {
	if v.kind.IsContainer() {
		return copy(dst, image)
	}
	b := byteBuf{Buf: dst}
	t := v.Type()
	b.AppendType(t)
	switch t.Storage {
	case StorageNoBytes:
	case StorageByte:
		b.AppendByte(byte(v.bits))
	case StorageWord:
		b.AppendUint16(uint16(v.bits))
	case StorageDWord:
		b.AppendUint32(uint32(v.bits))
	case StorageQWord:
		b.AppendUint64(v.bits)
	case StorageString:
		b.AppendSize(makeSize(len(v.data)))
		b.AppendRaw(v.data)
		b.AppendByte(0)
	case StorageBlob:
		b.AppendSize(makeSize(len(v.data)))
		b.AppendRaw(v.data)
	}
	return b.Off
}

func (d *byteDecoder) Value() (Value, error) {
	off := d.Off()
	t, err := d.Type()
	if err != nil {
		return Value{}, err
	}
	kind, ok := kindOf(t)
	if !ok {
		return Value{}, dataErrf(d.Orig, off, ErrInvalidType, "unsupported container type %v", t)
	}
	v := Value{kind: kind}
	if kind.IsUser() {
		v.sub = t.SubType
	}
	switch t.Storage {
	case StorageContainer:
		c, err := parseContainer(d.Orig, off, kind.keyKind(), !d.Trusted)
		if err != nil {
			return Value{}, err
		}
		d.Buf = d.Orig[off+len(c.raw):]
		v.c = c
	case StorageString:
		v.data, err = d.Text()
	case StorageBlob:
		v.data, err = d.VarBytes()
	default:
		n, _ := t.Storage.FixedSize()
		v.bits, err = d.Fixed(n)
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

package binn

import (
	"strconv"
	"unicode/utf8"
)

// KeyKind selects the container kind: lists have no keys, maps have int32
// keys and objects have string keys.
type KeyKind uint8

const (
	KeyNone KeyKind = iota
	KeyInt
	KeyString
)

// MaxKeyLen is the maximum length of an object key in bytes.
const MaxKeyLen = 255

func (kk KeyKind) String() string {
	switch kk {
	case KeyNone:
		return "none"
	case KeyInt:
		return "int"
	case KeyString:
		return "string"
	default:
		return "invalid"
	}
}

func (kk KeyKind) containerType() Type {
	switch kk {
	case KeyNone:
		return TypeList
	case KeyInt:
		return TypeMap
	case KeyString:
		return TypeObject
	default:
		panic("invalid key kind")
	}
}

// Key identifies an element within a container.
type Key struct {
	kind KeyKind
	num  int32
	str  string
}

func NoKey() Key               { return Key{} }
func IntKey(k int32) Key       { return Key{kind: KeyInt, num: k} }
func StringKey(k string) Key   { return Key{kind: KeyString, str: k} }
func (k Key) Kind() KeyKind    { return k.kind }
func (k Key) Int() int32       { return k.num }
func (k Key) Str() string      { return k.str }
func (k Key) Equal(o Key) bool { return k == o }

func (k Key) String() string {
	switch k.kind {
	case KeyInt:
		return strconv.FormatInt(int64(k.num), 10)
	case KeyString:
		return strconv.Quote(k.str)
	default:
		return "-"
	}
}

// EncodedSize returns the number of bytes the key occupies before a value.
func (k Key) EncodedSize() int {
	switch k.kind {
	case KeyInt:
		return 4
	case KeyString:
		return 1 + len(k.str)
	default:
		return 0
	}
}

func (k Key) put(buf []byte) int {
	b := byteBuf{Buf: buf}
	switch k.kind {
	case KeyInt:
		b.AppendUint32(uint32(k.num))
	case KeyString:
		b.AppendByte(byte(len(k.str)))
		b.AppendString(k.str)
	}
	return b.Off
}

// rawKey is a key as read from the wire; str aliases the container bytes.
type rawKey struct {
	num int32
	str []byte
}

func (rk rawKey) key(kind KeyKind) Key {
	switch kind {
	case KeyInt:
		return IntKey(rk.num)
	case KeyString:
		return StringKey(string(rk.str))
	default:
		return NoKey()
	}
}

func (rk rawKey) matches(k Key) bool {
	switch k.kind {
	case KeyInt:
		return rk.num == k.num
	case KeyString:
		return string(rk.str) == k.str
	default:
		return true
	}
}

func (d *byteDecoder) Key(kind KeyKind) (rawKey, error) {
	switch kind {
	case KeyInt:
		v, err := d.Fixed(4)
		if err != nil {
			return rawKey{}, err
		}
		return rawKey{num: int32(uint32(v))}, nil
	case KeyString:
		off := d.Off()
		n, err := d.Fixed(1)
		if err != nil {
			return rawKey{}, err
		}
		b, err := d.Raw(int(n))
		if err != nil {
			return rawKey{}, err
		}
		if !utf8.Valid(b) {
			return rawKey{}, dataErrf(d.Orig, off, ErrInvalidData, "invalid UTF-8 key")
		}
		return rawKey{str: b}, nil
	default:
		return rawKey{}, nil
	}
}

package binn

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"
)

// Kind identifies a Value variant. Every kind maps to exactly one type tag,
// except user kinds which combine their storage class with a caller-chosen
// subtype.
type Kind uint8

const (
	KindNull Kind = iota
	KindTrue
	KindFalse
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindFloat32
	KindUint64
	KindInt64
	KindFloat64
	KindText
	KindDateTime
	KindDate
	KindTime
	KindDecimalStr
	KindBlob
	KindList
	KindMap
	KindObject
	KindUserEmpty
	KindUserByte
	KindUserWord
	KindUserDWord
	KindUserQWord
	KindUserText
	KindUserBlob

	kindCount
)

var kindNames = [kindCount]string{
	KindNull:       "null",
	KindTrue:       "true",
	KindFalse:      "false",
	KindUint8:      "uint8",
	KindInt8:       "int8",
	KindUint16:     "uint16",
	KindInt16:      "int16",
	KindUint32:     "uint32",
	KindInt32:      "int32",
	KindFloat32:    "float",
	KindUint64:     "uint64",
	KindInt64:      "int64",
	KindFloat64:    "double",
	KindText:       "text",
	KindDateTime:   "datetime",
	KindDate:       "date",
	KindTime:       "time",
	KindDecimalStr: "decimal",
	KindBlob:       "blob",
	KindList:       "list",
	KindMap:        "map",
	KindObject:     "object",
	KindUserEmpty:  "user-empty",
	KindUserByte:   "user-byte",
	KindUserWord:   "user-word",
	KindUserDWord:  "user-dword",
	KindUserQWord:  "user-qword",
	KindUserText:   "user-text",
	KindUserBlob:   "user-blob",
}

// wellKnownTypes maps non-user kinds to their fixed type tags.
var wellKnownTypes = [KindUserEmpty]Type{
	KindNull:       TypeNull,
	KindTrue:       TypeTrue,
	KindFalse:      TypeFalse,
	KindUint8:      TypeUint8,
	KindInt8:       TypeInt8,
	KindUint16:     TypeUint16,
	KindInt16:      TypeInt16,
	KindUint32:     TypeUint32,
	KindInt32:      TypeInt32,
	KindFloat32:    TypeFloat,
	KindUint64:     TypeUint64,
	KindInt64:      TypeInt64,
	KindFloat64:    TypeDouble,
	KindText:       TypeText,
	KindDateTime:   TypeDateTime,
	KindDate:       TypeDate,
	KindTime:       TypeTime,
	KindDecimalStr: TypeDecimalStr,
	KindBlob:       TypeBlob,
	KindList:       TypeList,
	KindMap:        TypeMap,
	KindObject:     TypeObject,
}

// kindsByStorage lists well-known kinds per storage class, indexed by subtype.
// The last entry of each row is the user kind of that storage class.
var kindsByStorage = [8][]Kind{
	StorageNoBytes >> 5:   {KindNull, KindTrue, KindFalse, KindUserEmpty},
	StorageByte >> 5:      {KindUint8, KindInt8, KindUserByte},
	StorageWord >> 5:      {KindUint16, KindInt16, KindUserWord},
	StorageDWord >> 5:     {KindUint32, KindInt32, KindFloat32, KindUserDWord},
	StorageQWord >> 5:     {KindUint64, KindInt64, KindFloat64, KindUserQWord},
	StorageString >> 5:    {KindText, KindDateTime, KindDate, KindTime, KindDecimalStr, KindUserText},
	StorageBlob >> 5:      {KindBlob, KindUserBlob},
	StorageContainer >> 5: {KindList, KindMap, KindObject},
}

// kindOf resolves a type tag. Unknown subtypes resolve to the user kind of
// their storage class; there are no user-defined containers.
func kindOf(t Type) (Kind, bool) {
	row := kindsByStorage[t.Storage>>5]
	if t.Storage == StorageContainer {
		if int(t.SubType) < len(row) {
			return row[t.SubType], true
		}
		return 0, false
	}
	if int(t.SubType) < len(row)-1 {
		return row[t.SubType], true
	}
	return row[len(row)-1], true
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "invalid"
}

func (k Kind) IsUser() bool {
	return k >= KindUserEmpty && k < kindCount
}

func (k Kind) IsContainer() bool {
	return k == KindList || k == KindMap || k == KindObject
}

// IsText reports whether values of this kind carry UTF-8 text.
func (k Kind) IsText() bool {
	return (k >= KindText && k <= KindDecimalStr) || k == KindUserText
}

func (k Kind) keyKind() KeyKind {
	switch k {
	case KindMap:
		return KeyInt
	case KindObject:
		return KeyString
	default:
		return KeyNone
	}
}

func containerKind(kk KeyKind) Kind {
	switch kk {
	case KeyInt:
		return KindMap
	case KeyString:
		return KindObject
	default:
		return KindList
	}
}

// Value is any value representable in the format.
//
// The zero Value is null. Text, blob and container values parsed from bytes
// are views into those bytes and stay valid as long as the bytes are not
// modified.
type Value struct {
	kind Kind
	sub  SubType
	bits uint64
	data []byte
	c    Container
}

func Null() Value { return Value{} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindTrue}
	}
	return Value{kind: KindFalse}
}

func Uint8(v uint8) Value     { return Value{kind: KindUint8, bits: uint64(v)} }
func Int8(v int8) Value       { return Value{kind: KindInt8, bits: uint64(uint8(v))} }
func Uint16(v uint16) Value   { return Value{kind: KindUint16, bits: uint64(v)} }
func Int16(v int16) Value     { return Value{kind: KindInt16, bits: uint64(uint16(v))} }
func Uint32(v uint32) Value   { return Value{kind: KindUint32, bits: uint64(v)} }
func Int32(v int32) Value     { return Value{kind: KindInt32, bits: uint64(uint32(v))} }
func Float32(v float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))} }
func Uint64(v uint64) Value   { return Value{kind: KindUint64, bits: v} }
func Int64(v int64) Value     { return Value{kind: KindInt64, bits: uint64(v)} }
func Float64(v float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(v)} }

// Text returns a UTF-8 text value. The value references s without copying.
func Text(s string) Value { return textValue(KindText, s) }

// DateTime, Date, Time and DecimalStr share the text layout; the format of
// their contents is up to the application.
func DateTime(s string) Value   { return textValue(KindDateTime, s) }
func Date(s string) Value       { return textValue(KindDate, s) }
func Time(s string) Value       { return textValue(KindTime, s) }
func DecimalStr(s string) Value { return textValue(KindDecimalStr, s) }

// Blob returns a binary value referencing b.
func Blob(b []byte) Value { return Value{kind: KindBlob, data: b} }

func textValue(kind Kind, s string) Value {
	return Value{kind: kind, data: unsafeBytesFromString(s)}
}

// The User constructors do not check st; a subtype with a well-known meaning
// makes Encode and Add fail with ErrInvalidType.
func UserEmpty(st SubType) Value           { return Value{kind: KindUserEmpty, sub: st} }
func UserByte(st SubType, v uint8) Value   { return Value{kind: KindUserByte, sub: st, bits: uint64(v)} }
func UserWord(st SubType, v uint16) Value  { return Value{kind: KindUserWord, sub: st, bits: uint64(v)} }
func UserDWord(st SubType, v uint32) Value { return Value{kind: KindUserDWord, sub: st, bits: uint64(v)} }
func UserQWord(st SubType, v uint64) Value { return Value{kind: KindUserQWord, sub: st, bits: v} }
func UserText(st SubType, s string) Value {
	return Value{kind: KindUserText, sub: st, data: unsafeBytesFromString(s)}
}
func UserBlob(st SubType, b []byte) Value { return Value{kind: KindUserBlob, sub: st, data: b} }

// User builds a user-defined value of the given type from raw parts: bits
// for fixed-width storage, data for text and blob storage. Types that have a
// well-known meaning and container types are rejected.
func User(t Type, bits uint64, data []byte) (Value, error) {
	if !t.SubType.Valid() {
		return Value{}, &OutOfRangeError{Min: 0, Max: MaxSubType, Value: int64(t.SubType)}
	}
	kind, ok := kindOf(t)
	if !ok || !kind.IsUser() {
		return Value{}, fmt.Errorf("%w: %v is not a user type", ErrInvalidType, t)
	}
	if n, fixed := t.Storage.FixedSize(); fixed {
		if n < 8 {
			bits &= 1<<(8*n) - 1
		}
		data = nil
	} else {
		bits = 0
		if kind == KindUserText && !utf8.Valid(data) {
			return Value{}, fmt.Errorf("%w: invalid UTF-8 text", ErrInvalidData)
		}
	}
	return Value{kind: kind, sub: t.SubType, bits: bits, data: data}, nil
}

func (v Value) Kind() Kind { return v.kind }

// Type returns the type tag the value is encoded with.
func (v Value) Type() Type {
	if v.kind.IsUser() {
		return Type{userStorage(v.kind), v.sub}
	}
	return wellKnownTypes[v.kind]
}

func userStorage(k Kind) Storage {
	return Storage(k-KindUserEmpty) << 5
}

func (v Value) SubType() SubType { return v.Type().SubType }
func (v Value) IsNull() bool     { return v.kind == KindNull }

func (v Value) Bool() (value bool, ok bool) {
	switch v.kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	default:
		return false, false
	}
}

func (v Value) Uint8() (uint8, bool)   { return uint8(v.bits), v.kind == KindUint8 }
func (v Value) Int8() (int8, bool)     { return int8(uint8(v.bits)), v.kind == KindInt8 }
func (v Value) Uint16() (uint16, bool) { return uint16(v.bits), v.kind == KindUint16 }
func (v Value) Int16() (int16, bool)   { return int16(uint16(v.bits)), v.kind == KindInt16 }
func (v Value) Uint32() (uint32, bool) { return uint32(v.bits), v.kind == KindUint32 }
func (v Value) Int32() (int32, bool)   { return int32(uint32(v.bits)), v.kind == KindInt32 }
func (v Value) Uint64() (uint64, bool) { return v.bits, v.kind == KindUint64 }
func (v Value) Int64() (int64, bool)   { return int64(v.bits), v.kind == KindInt64 }

func (v Value) Float32() (float32, bool) {
	return math.Float32frombits(uint32(v.bits)), v.kind == KindFloat32
}

func (v Value) Float64() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == KindFloat64
}

// Int returns any signed integer kind widened to int64, and unsigned kinds
// that fit into int64.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt8:
		return int64(int8(uint8(v.bits))), true
	case KindInt16:
		return int64(int16(uint16(v.bits))), true
	case KindInt32:
		return int64(int32(uint32(v.bits))), true
	case KindInt64:
		return int64(v.bits), true
	case KindUint8, KindUint16, KindUint32:
		return int64(v.bits), true
	case KindUint64:
		if v.bits > math.MaxInt64 {
			return 0, false
		}
		return int64(v.bits), true
	default:
		return 0, false
	}
}

// Bits returns the raw payload of fixed-width kinds, including user kinds.
func (v Value) Bits() (uint64, bool) {
	if v.kind.IsContainer() {
		return 0, false
	}
	_, ok := v.Type().Storage.FixedSize()
	return v.bits, ok
}

// Str returns the contents of any text kind as a string (copied).
func (v Value) Str() (string, bool) {
	if !v.kind.IsText() {
		return "", false
	}
	return string(v.data), true
}

// TextBytes returns the contents of any text kind without copying. The
// terminator byte is not included.
func (v Value) TextBytes() ([]byte, bool) {
	if !v.kind.IsText() {
		return nil, false
	}
	return v.data, true
}

// Blob returns the payload of Blob and UserBlob values without copying.
func (v Value) Blob() ([]byte, bool) {
	if v.kind != KindBlob && v.kind != KindUserBlob {
		return nil, false
	}
	return v.data, true
}

func (v Value) Container() (Container, bool) {
	return v.c, v.kind.IsContainer()
}

func (v Value) List() (List, bool) {
	return List{v.c}, v.kind == KindList
}

func (v Value) Map() (Map, bool) {
	return Map{v.c}, v.kind == KindMap
}

func (v Value) Object() (Object, bool) {
	return Object{v.c}, v.kind == KindObject
}

// Equal reports whether two values have the same type and contents.
// Containers are equal when their element counts and bytes match. Floats are
// compared bitwise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.sub != o.sub {
		return false
	}
	switch {
	case v.kind.IsContainer():
		return v.c.Equal(o.c)
	case v.data != nil || o.data != nil:
		return bytes.Equal(v.data, o.data)
	default:
		return v.bits == o.bits
	}
}

func (v Value) String() string {
	return Dump(v)
}

package binn

import "fmt"

// Type is a decoded type tag: a storage class plus a subtype.
//
// On the wire a type is a single byte (storage | subtype) when the subtype
// is below 16, and otherwise two big-endian bytes with the extension bit set:
//
//	sss0 tttt                 (subtype < 16)
//	sss1 tttt  tttt tttt      (subtype < 4096)
type Type struct {
	Storage Storage
	SubType SubType
}

const (
	tagExtBit      = 0x10
	tagSubtypeMask = 0x0F
)

var (
	TypeNull   = Type{StorageNoBytes, 0}
	TypeTrue   = Type{StorageNoBytes, 1}
	TypeFalse  = Type{StorageNoBytes, 2}
	TypeUint8  = Type{StorageByte, 0}
	TypeInt8   = Type{StorageByte, 1}
	TypeUint16 = Type{StorageWord, 0}
	TypeInt16  = Type{StorageWord, 1}
	TypeUint32 = Type{StorageDWord, 0}
	TypeInt32  = Type{StorageDWord, 1}
	TypeFloat  = Type{StorageDWord, 2}
	TypeUint64 = Type{StorageQWord, 0}
	TypeInt64  = Type{StorageQWord, 1}
	TypeDouble = Type{StorageQWord, 2}

	TypeText       = Type{StorageString, 0}
	TypeDateTime   = Type{StorageString, 1}
	TypeDate       = Type{StorageString, 2}
	TypeTime       = Type{StorageString, 3}
	TypeDecimalStr = Type{StorageString, 4}

	TypeBlob = Type{StorageBlob, 0}

	TypeList   = Type{StorageContainer, 0}
	TypeMap    = Type{StorageContainer, 1}
	TypeObject = Type{StorageContainer, 2}
)

// IsSingleByte reports whether the tag is encoded in one byte.
func (t Type) IsSingleByte() bool {
	return t.SubType < 16
}

// Size returns the encoded width of the tag (1 or 2).
func (t Type) Size() int {
	if t.IsSingleByte() {
		return 1
	}
	return 2
}

func (t Type) String() string {
	return fmt.Sprintf("%s:%d", t.Storage, uint16(t.SubType))
}

// put writes the tag into buf and returns the number of bytes written.
// The caller guarantees len(buf) >= t.Size().
func (t Type) put(buf []byte) int {
	if t.IsSingleByte() {
		buf[0] = byte(t.Storage) | byte(t.SubType)
		return 1
	}
	buf[0] = byte(t.Storage) | tagExtBit | byte(t.SubType>>8)&tagSubtypeMask
	buf[1] = byte(t.SubType)
	return 2
}

// decodeType reads a tag from the start of buf. All 8 storage classes are
// valid, so the only failure is running out of bytes.
func decodeType(buf []byte) (Type, int, bool) {
	if len(buf) == 0 {
		return Type{}, 0, false
	}
	b0 := buf[0]
	t := Type{Storage: storageOf(b0)}
	if b0&tagExtBit == 0 {
		t.SubType = SubType(b0 & tagSubtypeMask)
		return t, 1, true
	}
	if len(buf) < 2 {
		return Type{}, 0, false
	}
	t.SubType = SubType(b0&tagSubtypeMask)<<8 | SubType(buf[1])
	return t, 2, true
}

package binn

// Storage is the coarse payload class stored in the top 3 bits of a type tag.
type Storage uint8

const (
	StorageNoBytes   Storage = 0x00
	StorageByte      Storage = 0x20
	StorageWord      Storage = 0x40
	StorageDWord     Storage = 0x60
	StorageQWord     Storage = 0x80
	StorageString    Storage = 0xA0
	StorageBlob      Storage = 0xC0
	StorageContainer Storage = 0xE0

	storageMask = 0xE0
)

// FixedSize returns the payload size of fixed-width storage classes.
// ok is false for String, Blob and Container, which carry a size field.
func (s Storage) FixedSize() (size int, ok bool) {
	switch s {
	case StorageNoBytes:
		return 0, true
	case StorageByte:
		return 1, true
	case StorageWord:
		return 2, true
	case StorageDWord:
		return 4, true
	case StorageQWord:
		return 8, true
	default:
		return 0, false
	}
}

func (s Storage) String() string {
	switch s {
	case StorageNoBytes:
		return "empty"
	case StorageByte:
		return "byte"
	case StorageWord:
		return "word"
	case StorageDWord:
		return "dword"
	case StorageQWord:
		return "qword"
	case StorageString:
		return "string"
	case StorageBlob:
		return "blob"
	case StorageContainer:
		return "container"
	default:
		return "invalid"
	}
}

func storageOf(b byte) Storage {
	return Storage(b & storageMask)
}

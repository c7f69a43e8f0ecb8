package binn

import "encoding/binary"

const (
	// MaxSize is the largest length or count a size field can hold.
	MaxSize = 0x7FFF_FFFF

	maxCompactSize = 127
	fullSizeBit    = 0x8000_0000
	fullSizeWidth  = 4

	// promotionShift is how many bytes a size field gains when it switches
	// from the compact to the full form.
	promotionShift = fullSizeWidth - 1
)

// Size is a variable-width non-negative integer used for container lengths,
// element counts and text/blob payload lengths: 1 byte for 0..127 (top bit
// clear), 4 big-endian bytes with the top bit set otherwise.
//
// A Size remembers its width. Values decoded in the full form stay full even
// if they would fit into one byte, so re-encoding never moves bytes around.
type Size struct {
	v    uint32
	full bool
}

func isCompact(v int) bool {
	return v <= maxCompactSize
}

// makeSize returns the narrowest Size for v. The caller ensures
// 0 <= v <= MaxSize.
func makeSize(v int) Size {
	return Size{uint32(v), !isCompact(v)}
}

// sizeWidth is the encoded width of the narrowest Size for v.
func sizeWidth(v int) int {
	if isCompact(v) {
		return 1
	}
	return fullSizeWidth
}

func (s Size) Value() int      { return int(s.v) }
func (s Size) IsCompact() bool { return !s.full }

// Width returns the number of bytes the size occupies on the wire.
func (s Size) Width() int {
	if s.full {
		return fullSizeWidth
	}
	return 1
}

// withValue returns a Size holding v with the same width as s, or the full
// width if v no longer fits into one byte. Sizes are never demoted.
func (s Size) withValue(v int) Size {
	return Size{uint32(v), s.full || !isCompact(v)}
}

// promotes reports whether storing v would widen s.
func (s Size) promotes(v int) bool {
	return !s.full && !isCompact(v)
}

// put writes the size into buf and returns the number of bytes written.
func (s Size) put(buf []byte) int {
	if !s.full {
		buf[0] = byte(s.v)
		return 1
	}
	binary.BigEndian.PutUint32(buf, s.v&MaxSize|fullSizeBit)
	return fullSizeWidth
}

func decodeSize(buf []byte) (Size, int, bool) {
	if len(buf) == 0 {
		return Size{}, 0, false
	}
	if buf[0]&0x80 == 0 {
		return Size{uint32(buf[0]), false}, 1, true
	}
	if len(buf) < fullSizeWidth {
		return Size{}, 0, false
	}
	return Size{binary.BigEndian.Uint32(buf) & MaxSize, true}, fullSizeWidth, true
}

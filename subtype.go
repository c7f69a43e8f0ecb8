package binn

import "fmt"

// SubType refines the meaning of a value within its storage class.
// Valid subtypes are 0 to 4095; values 16 and above need a 2-byte tag.
type SubType uint16

const MaxSubType = 4095

// ParseSubType converts v to a SubType, reporting an *OutOfRangeError when
// it does not fit.
func ParseSubType(v int64) (SubType, error) {
	if v < 0 || v > MaxSubType {
		return 0, &OutOfRangeError{Min: 0, Max: MaxSubType, Value: v}
	}
	return SubType(v), nil
}

// MustSubType is like ParseSubType but panics on invalid values. Intended for
// package-level constants.
func MustSubType(v int) SubType {
	return must(ParseSubType(int64(v)))
}

func (st SubType) Valid() bool {
	return st <= MaxSubType
}

func (st SubType) String() string {
	return fmt.Sprintf("%d", uint16(st))
}

package binn

import (
	"slices"
	"unsafe"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// grow extends buf by n bytes, reallocating if needed.
func grow(buf []byte, n int) []byte {
	return slices.Grow(buf, n)[:len(buf)+n]
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

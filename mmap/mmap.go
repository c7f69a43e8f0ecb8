// Package mmap maps files into memory so that binn documents can be built
// and read in place without copying.
package mmap

import (
	"errors"
	"os"
)

// ErrUnsupported is returned on platforms without memory mapping.
var ErrUnsupported = errors.New("mmap: not supported on this platform")

type Options uint

const (
	// Writable maps the file for writing (otherwise, it's mapped read-only).
	Writable Options = 1 << 0

	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Incompatible with RandomAccess. Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << 1

	// RandomAccess is a hint that read ahead is less useful than normally.
	// Incompatible with SequentialAccess. Maps to MADV_RANDOM on Unix.
	RandomAccess Options = 1 << 2

	// Prefault is a hint requesting the entire file to be loaded in memory
	// for fastest access. Maps to MAP_POPULATE on Linux.
	Prefault Options = 1 << 3
)

func (o Options) Has(v Options) bool {
	return o&v != 0
}

// Mmap maps the first size bytes of f. The file must be at least size bytes
// long; writes through a Writable mapping go to the file.
func Mmap(f *os.File, size int, opt Options) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("mmap: size must be positive")
	}
	return mmap(f, size, opt)
}

// Munmap unmaps the given slice from memory. The slice must have been returned
// by Mmap.
func Munmap(b []byte) error {
	return munmap(b)
}

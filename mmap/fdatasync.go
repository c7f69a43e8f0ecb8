package mmap

import "os"

// Fdatasync flushes the data written to f, and to its mapping if one is
// given, without necessarily flushing metadata such as modification times.
//
// Errors returned by this function are not recoverable: the kernel may
// already have marked the failed pages clean. Treat the file as corrupted.
func Fdatasync(f *os.File, mapping []byte) error {
	return fdatasync(f, mapping)
}

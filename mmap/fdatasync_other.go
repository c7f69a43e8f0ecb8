//go:build !linux

package mmap

import "os"

func fdatasync(f *os.File, mapping []byte) error {
	return f.Sync()
}

//go:build !unix

package mmap

import "os"

func mmap(*os.File, int, Options) ([]byte, error) {
	return nil, ErrUnsupported
}

func munmap([]byte) error {
	return ErrUnsupported
}

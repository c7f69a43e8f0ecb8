//go:build unix

package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOptionsHas(t *testing.T) {
	var o Options = Writable | Prefault
	if !o.Has(Writable) || o.Has(SequentialAccess) {
		t.Fatalf("Options.Has returned unexpected results for %v", o)
	}
}

func TestMmap_WritesReachFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "doc.binn")
	f := must(os.Create(name))
	defer f.Close()

	const size = 4096
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	b, err := Mmap(f, size, Writable|SequentialAccess|Prefault)
	if err != nil {
		t.Fatalf("Mmap: %v", err)
	}
	if len(b) != size {
		t.Fatalf("len(mmap) = %d, wanted %d", len(b), size)
	}
	copy(b, []byte{0xE0, 0x03, 0x00})
	if err := Fdatasync(f, b); err != nil {
		t.Fatalf("Fdatasync: %v", err)
	}
	if err := Munmap(b); err != nil {
		t.Fatalf("Munmap: %v", err)
	}

	data := must(os.ReadFile(name))
	if data[0] != 0xE0 || data[1] != 0x03 || data[2] != 0x00 {
		t.Fatalf("file starts with %x, wanted e00300", data[:3])
	}
}

func TestMmap_ReadOnly(t *testing.T) {
	name := filepath.Join(t.TempDir(), "doc.binn")
	if err := os.WriteFile(name, []byte{0x20, 0x07}, 0o644); err != nil {
		t.Fatal(err)
	}
	f := must(os.Open(name))
	defer f.Close()

	b, err := Mmap(f, 2, RandomAccess)
	if err != nil {
		t.Fatalf("Mmap: %v", err)
	}
	defer Munmap(b)
	if b[1] != 0x07 {
		t.Fatalf("b = %x, wanted 2007", b)
	}
}

func TestMmap_RejectsEmpty(t *testing.T) {
	f := must(os.CreateTemp(t.TempDir(), "mmap_test_*"))
	defer f.Close()
	if _, err := Mmap(f, 0, 0); err == nil {
		t.Fatalf("Mmap(size 0) succeeded")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

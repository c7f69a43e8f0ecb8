// Package binnfile keeps a binn document in a memory-mapped file. The
// mapping serves as the fixed buffer of a mutable document, so appends go
// straight to the page cache; Close trims the file to the used length.
package binnfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/andreyvit/binn"
	"github.com/andreyvit/binn/mmap"
)

type Options struct {
	Context context.Context
	Logger  *slog.Logger

	// Access is a combination of mmap.SequentialAccess, mmap.RandomAccess
	// and mmap.Prefault.
	Access mmap.Options
}

func (o *Options) fillDefaults() {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type File struct {
	f        *os.File
	data     []byte
	root     binn.Container
	value    binn.Value
	used     int
	writable bool

	ctx    context.Context
	logger *slog.Logger
}

// Create creates (or truncates) the file at path, reserves capacity bytes
// and writes an empty container of the given kind into it.
func Create(path string, capacity int, kk binn.KeyKind, opt Options) (*File, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	return openMapped(f, capacity, opt, func(data []byte) (binn.Container, error) {
		return binn.NewContainer(data, kk)
	})
}

// OpenWritable opens an existing document for appending, growing the file
// to capacity bytes if it is smaller.
func OpenWritable(path string, capacity int, kk binn.KeyKind, opt Options) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	capacity = max(capacity, int(min(st.Size(), binn.MaxSize)))
	if err := checkCapacity(capacity); err != nil {
		f.Close()
		return nil, err
	}
	return openMapped(f, capacity, opt, func(data []byte) (binn.Container, error) {
		return binn.OpenContainer(data, kk)
	})
}

func checkCapacity(capacity int) error {
	if capacity < 3 || capacity > binn.MaxSize {
		return &binn.OutOfRangeError{Min: 3, Max: binn.MaxSize, Value: int64(capacity)}
	}
	return nil
}

func openMapped(f *os.File, capacity int, opt Options, open func(data []byte) (binn.Container, error)) (*File, error) {
	opt.fillDefaults()
	if err := f.Truncate(int64(capacity)); err != nil {
		f.Close()
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	data, err := mmap.Mmap(f, capacity, mmap.Writable|opt.Access)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	root, err := open(data)
	if err != nil {
		err = unmapped(err)
		mmap.Munmap(data)
		f.Close()
		return nil, fmt.Errorf("binnfile: %s: %w", f.Name(), err)
	}
	opt.Logger.LogAttrs(opt.Context, slog.LevelDebug, "binnfile: opened for writing", slog.String("file", f.Name()), slog.Int("capacity", capacity), slog.Int("used", len(root.Bytes())))
	return &File{
		f:        f,
		data:     data,
		root:     root,
		value:    root.Value(),
		writable: true,
		ctx:      opt.Context,
		logger:   opt.Logger,
	}, nil
}

// Open maps an existing document read-only and validates it.
func Open(path string, opt Options) (*File, error) {
	opt.fillDefaults()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	if st.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("binnfile: %s is empty: %w", path, binn.ErrInvalidData)
	}
	data, err := mmap.Mmap(f, int(min(st.Size(), binn.MaxSize)), opt.Access)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binnfile: %w", err)
	}
	v, n, err := binn.DeserializePrefix(data)
	if err != nil {
		err = unmapped(err)
		mmap.Munmap(data)
		f.Close()
		return nil, fmt.Errorf("binnfile: %s: %w", path, err)
	}
	if n != len(data) {
		opt.Logger.LogAttrs(opt.Context, slog.LevelWarn, "binnfile: trailing bytes after document", slog.String("file", path), slog.Int("used", n), slog.Int("size", len(data)))
	}
	root, _ := v.Container()
	return &File{
		f:      f,
		data:   data,
		root:   root,
		value:  v,
		used:   n,
		ctx:    opt.Context,
		logger: opt.Logger,
	}, nil
}

// unmapped copies the input held by a decoding error so that the error stays
// printable after the mapping is gone.
func unmapped(err error) error {
	var de *binn.DataError
	if errors.As(err, &de) {
		de.Data = bytes.Clone(de.Data)
	}
	return err
}

// Root returns the root container. For files opened for writing it is
// mutable; appending beyond the capacity fails with *binn.SmallBufferError.
func (f *File) Root() binn.Container { return f.root }

// Value returns the document as a value; valid until Close.
func (f *File) Value() binn.Value {
	if f.writable {
		return f.root.Value()
	}
	return f.value
}

// Len returns the number of bytes used by the document.
func (f *File) Len() int {
	if f.writable {
		return len(f.root.Bytes())
	}
	return f.used
}

// Capacity returns the size of the mapping.
func (f *File) Capacity() int { return len(f.data) }

// Sync flushes appended data to disk.
func (f *File) Sync() error {
	if !f.writable {
		return nil
	}
	return mmap.Fdatasync(f.f, f.data)
}

// Close unmaps the file. Files opened for writing are synced and truncated
// to the used length first.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	var errs []error
	used := f.Len()
	if f.writable {
		errs = append(errs, f.Sync())
	}
	errs = append(errs, mmap.Munmap(f.data))
	f.data = nil
	if f.writable {
		errs = append(errs, f.f.Truncate(int64(used)))
		f.logger.LogAttrs(f.ctx, slog.LevelDebug, "binnfile: closed", slog.String("file", f.f.Name()), slog.Int("used", used))
	}
	errs = append(errs, f.f.Close())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("binnfile: %w", err)
	}
	return nil
}

// Package store keeps binn documents in named buckets of a key-value store,
// backed by Bolt on disk or by memory in tests.
//
// Every record is the 8-byte big-endian xxhash64 of the document followed
// by the document itself. Documents are validated when written, and the
// checksum is verified before a document is handed out.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

type Store struct {
	st      storage
	ctx     context.Context
	logger  *slog.Logger
	verbose bool
}

type Options struct {
	Context   context.Context
	Logger    *slog.Logger
	Verbose   bool
	IsTesting bool
	MmapSize  int
	Timeout   time.Duration
}

func (o *Options) fillDefaults() {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Timeout == 0 {
		o.Timeout = 10 * time.Second
	}
}

// Open opens or creates a Bolt-backed store at path.
func Open(path string, opt Options) (*Store, error) {
	opt.fillDefaults()
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}
	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return newStore(newBoltStorage(bdb), opt), nil
}

// OpenMemory returns a transient store that lives in memory.
func OpenMemory(opt Options) *Store {
	opt.fillDefaults()
	return newStore(newMemStorage(), opt)
}

func newStore(st storage, opt Options) *Store {
	return &Store{
		st:      st,
		ctx:     opt.Context,
		logger:  opt.Logger,
		verbose: opt.Verbose,
	}
}

func (s *Store) Close() error {
	return s.st.Close()
}

// View runs fn in a read-only transaction.
func (s *Store) View(fn func(tx *Tx) error) error {
	return s.run(false, fn)
}

// Update runs fn in a writable transaction, committing if fn returns nil.
func (s *Store) Update(fn func(tx *Tx) error) error {
	return s.run(true, fn)
}

func (s *Store) run(writable bool, fn func(tx *Tx) error) error {
	stx, err := s.st.BeginTx(writable)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer stx.Rollback()

	tx := &Tx{s: s, stx: stx}
	if err := fn(tx); err != nil {
		return err
	}
	if writable {
		if err := stx.Commit(); err != nil {
			return fmt.Errorf("store: commit: %w", err)
		}
		if s.verbose {
			s.logger.LogAttrs(s.ctx, slog.LevelDebug, "store: committed", slog.Int("puts", tx.puts), slog.Int("deletes", tx.deletes))
		}
	}
	return nil
}

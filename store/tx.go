package store

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log/slog"

	"github.com/andreyvit/binn"
	"github.com/cespare/xxhash/v2"
)

const checksumSize = 8

// Tx is a store transaction. Values returned by Get and All reference
// storage memory and are only valid until the transaction ends.
type Tx struct {
	s   *Store
	stx storageTx

	puts    int
	deletes int
}

func (tx *Tx) Writable() bool { return tx.stx.Writable() }

// Buckets returns the names of all buckets.
func (tx *Tx) Buckets() []string { return tx.stx.BucketNames() }

// Put encodes v and stores it under key, creating the bucket if needed.
func (tx *Tx) Put(bucket, key string, v binn.Value) error {
	rec := make([]byte, checksumSize, checksumSize+v.TotalSize())
	rec, err := v.AppendEncoded(rec)
	if err != nil {
		return recordErrf(bucket, key, err, "encoding")
	}
	return tx.putRecord(bucket, key, rec)
}

// PutRaw validates an encoded document and stores it under key. data must
// hold exactly one value.
func (tx *Tx) PutRaw(bucket, key string, data []byte) error {
	_, n, err := binn.DeserializePrefix(data)
	if err != nil {
		return recordErrf(bucket, key, err, "invalid document")
	}
	if n != len(data) {
		return recordErrf(bucket, key, binn.ErrMalformed, "%d trailing bytes after document", len(data)-n)
	}
	rec := make([]byte, checksumSize+len(data))
	copy(rec[checksumSize:], data)
	return tx.putRecord(bucket, key, rec)
}

func (tx *Tx) putRecord(bucket, key string, rec []byte) error {
	if !tx.stx.Writable() {
		return ErrReadOnlyTx
	}
	binary.BigEndian.PutUint64(rec, xxhash.Sum64(rec[checksumSize:]))

	b := tx.stx.Bucket(bucket)
	if b == nil {
		var err error
		b, err = tx.stx.CreateBucket(bucket)
		if err != nil {
			return recordErrf(bucket, "", err, "creating bucket")
		}
		tx.s.logger.LogAttrs(tx.s.ctx, slog.LevelInfo, "store: created bucket", slog.String("bucket", bucket))
	}
	if err := b.Put([]byte(key), rec); err != nil {
		return recordErrf(bucket, key, err, "put")
	}
	tx.puts++
	if tx.s.verbose {
		tx.s.logger.LogAttrs(tx.s.ctx, slog.LevelDebug, "store: put", slog.String("bucket", bucket), slog.String("key", key), slog.Int("size", len(rec)-checksumSize))
	}
	return nil
}

// Get returns the document stored under key.
func (tx *Tx) Get(bucket, key string) (binn.Value, bool, error) {
	b := tx.stx.Bucket(bucket)
	if b == nil {
		return binn.Value{}, false, nil
	}
	rec := b.Get(unsafeBytesFromString(key))
	if rec == nil {
		return binn.Value{}, false, nil
	}
	v, err := tx.decode(bucket, key, rec)
	if err != nil {
		return binn.Value{}, false, err
	}
	return v, true, nil
}

// GetRaw returns the encoded document stored under key after verifying its
// checksum.
func (tx *Tx) GetRaw(bucket, key string) ([]byte, error) {
	b := tx.stx.Bucket(bucket)
	if b == nil {
		return nil, nil
	}
	rec := b.Get(unsafeBytesFromString(key))
	if rec == nil {
		return nil, nil
	}
	return tx.verify(bucket, key, rec)
}

func (tx *Tx) verify(bucket, key string, rec []byte) ([]byte, error) {
	if len(rec) < checksumSize {
		return nil, recordErrf(bucket, key, ErrChecksum, "record too short (%d bytes)", len(rec))
	}
	data := rec[checksumSize:]
	if want, got := binary.BigEndian.Uint64(rec), xxhash.Sum64(data); want != got {
		tx.s.logger.LogAttrs(tx.s.ctx, slog.LevelWarn, "store: checksum mismatch", slog.String("bucket", bucket), slog.String("key", key), slog.String("stored", fmt.Sprintf("%016x", want)), slog.String("computed", fmt.Sprintf("%016x", got)))
		return nil, recordErrf(bucket, key, ErrChecksum, "")
	}
	return data, nil
}

func (tx *Tx) decode(bucket, key string, rec []byte) (binn.Value, error) {
	data, err := tx.verify(bucket, key, rec)
	if err != nil {
		return binn.Value{}, err
	}
	v, err := binn.Deserialize(data)
	if err != nil {
		return binn.Value{}, recordErrf(bucket, key, err, "invalid document")
	}
	return v, nil
}

// Delete removes key from the bucket. Deleting a missing key is not an error.
func (tx *Tx) Delete(bucket, key string) error {
	if !tx.stx.Writable() {
		return ErrReadOnlyTx
	}
	b := tx.stx.Bucket(bucket)
	if b == nil {
		return nil
	}
	if err := b.Delete([]byte(key)); err != nil {
		return recordErrf(bucket, key, err, "delete")
	}
	tx.deletes++
	return nil
}

// DeleteBucket removes a bucket and all of its documents.
func (tx *Tx) DeleteBucket(bucket string) error {
	if !tx.stx.Writable() {
		return ErrReadOnlyTx
	}
	return tx.stx.DeleteBucket(bucket)
}

// Count returns the number of documents in the bucket.
func (tx *Tx) Count(bucket string) int {
	b := tx.stx.Bucket(bucket)
	if b == nil {
		return 0
	}
	return b.KeyCount()
}

// All iterates over the documents of a bucket in key order, starting at the
// first key not less than from. Records that fail verification are logged
// and skipped.
func (tx *Tx) All(bucket, from string) iter.Seq2[string, binn.Value] {
	return func(yield func(string, binn.Value) bool) {
		b := tx.stx.Bucket(bucket)
		if b == nil {
			return
		}
		c := b.Cursor()
		var k, rec []byte
		if from == "" {
			k, rec = c.First()
		} else {
			k, rec = c.Seek([]byte(from))
		}
		for ; k != nil; k, rec = c.Next() {
			key := string(k)
			v, err := tx.decode(bucket, key, rec)
			if err != nil {
				tx.s.logger.LogAttrs(tx.s.ctx, slog.LevelWarn, "store: skipping record", slog.String("bucket", bucket), slog.String("key", key), slog.Any("err", err))
				continue
			}
			if !yield(key, v) {
				return
			}
		}
	}
}

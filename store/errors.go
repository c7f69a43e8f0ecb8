package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChecksum means that a stored record does not match its checksum.
	ErrChecksum = errors.New("checksum mismatch")

	ErrReadOnlyTx = errors.New("transaction is read-only")
)

// RecordError describes a failure involving a particular record.
type RecordError struct {
	Bucket string
	Key    string
	Msg    string
	Err    error
}

func recordErrf(bucket, key string, err error, format string, args ...any) error {
	return &RecordError{bucket, key, fmt.Sprintf(format, args...), err}
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Bucket)
	if e.Key != "" {
		buf.WriteByte('/')
		buf.WriteString(e.Key)
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

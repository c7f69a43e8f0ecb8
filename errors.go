package binn

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed matches every decoding error.
	ErrMalformed = errors.New("binn: malformed data")

	// ErrInvalidData means that a size or payload is truncated or inconsistent.
	ErrInvalidData = fmt.Errorf("%w: invalid data", ErrMalformed)

	// ErrInvalidType means that a type tag is not acceptable where it occurs.
	ErrInvalidType = fmt.Errorf("%w: invalid type", ErrMalformed)

	ErrReadOnly = errors.New("binn: container is read-only")
	ErrLongKey  = errors.New("binn: key longer than 255 bytes")
	ErrKeyKind  = errors.New("binn: key kind does not match container")

	// ErrDetached is returned when appending through a nested container
	// handle after one of its ancestors has been appended to.
	ErrDetached = errors.New("binn: container handle is detached")

	// ErrTooLarge is returned when a length or count would exceed MaxSize.
	ErrTooLarge = errors.New("binn: container too large")
)

// DataError describes malformed input. Err is ErrInvalidData or
// ErrInvalidType, so errors.Is(err, ErrMalformed) holds for every DataError.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at offset %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at offset %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at offset %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at offset %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}

// SmallBufferError reports that a fixed buffer cannot hold the result of an
// operation. Nothing has been written when it is returned; retrying with
// Required more bytes of capacity succeeds.
type SmallBufferError struct {
	Required int
}

func (e *SmallBufferError) Error() string {
	return fmt.Sprintf("binn: buffer too small, %d more bytes required", e.Required)
}

// OutOfRangeError reports a number outside of [Min, Max].
type OutOfRangeError struct {
	Min   int64
	Max   int64
	Value int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("binn: %d out of range [%d, %d]", e.Value, e.Min, e.Max)
}

// RequiredExtra returns the number of missing bytes if err is (or wraps) a
// *SmallBufferError.
func RequiredExtra(err error) (int, bool) {
	var sbe *SmallBufferError
	if errors.As(err, &sbe) {
		return sbe.Required, true
	}
	return 0, false
}

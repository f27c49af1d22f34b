package membuf

import "errors"

var (
	// ErrIllegalArgument is returned for an invalid capacity, position or
	// limit value, and for a buffer put into itself.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrUnderflow is returned by a relative read with fewer elements
	// remaining than requested.
	ErrUnderflow = errors.New("buffer underflow")

	// ErrOverflow is returned by a relative write with fewer elements
	// remaining than requested.
	ErrOverflow = errors.New("buffer overflow")

	// ErrIndexOutOfBounds is returned for an absolute index or a bulk
	// transfer region outside the valid range.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidMark is returned by Reset when no mark is set.
	ErrInvalidMark = errors.New("invalid mark")

	// ErrReadOnlyBuffer is returned by any mutating operation on a
	// read-only view.
	ErrReadOnlyBuffer = errors.New("read-only buffer")

	// ErrUnsupported is returned by array exposure on a buffer not backed
	// by an accessible slice, and by mapped-region operations on a buffer
	// not backed by a file mapping.
	ErrUnsupported = errors.New("unsupported operation")
)

package membuf

import (
	"fmt"

	"github.com/pkg/errors"
)

// cursor implements the capacity/limit/position/mark bookkeeping shared by
// every buffer type in this package.
//
// The invariant 0 <= mark <= position <= limit <= capacity holds after every
// operation; a mark of -1 means no mark is set and reads as 0 for the
// invariant.
type cursor struct {
	capacity int
	limit    int
	position int
	mark     int
}

func newCursor(capacity int) cursor {
	return cursor{capacity: capacity, limit: capacity, mark: -1}
}

// Capacity returns the fixed number of addressable elements.
func (c *cursor) Capacity() int { return c.capacity }

// Limit returns the soft upper bound on valid indices.
func (c *cursor) Limit() int { return c.limit }

// Position returns the index of the next relative read or write.
func (c *cursor) Position() int { return c.position }

// SetPosition sets the position. The mark is discarded if it exceeds the new
// position.
func (c *cursor) SetPosition(n int) error {
	if n < 0 || n > c.limit {
		return errors.Wrapf(ErrIllegalArgument, "position %d outside [0, %d]", n, c.limit)
	}

	c.position = n
	if c.mark > n {
		c.mark = -1
	}
	return nil
}

// SetLimit sets the limit. The position is clamped to the new limit and the
// mark is discarded if it exceeds it.
func (c *cursor) SetLimit(n int) error {
	if n < 0 || n > c.capacity {
		return errors.Wrapf(ErrIllegalArgument, "limit %d outside [0, %d]", n, c.capacity)
	}

	c.limit = n
	if c.position > n {
		c.position = n
	}
	if c.mark > n {
		c.mark = -1
	}
	return nil
}

// Mark records the current position as the target of a later Reset.
func (c *cursor) Mark() { c.mark = c.position }

// Reset moves the position back to the mark. The mark is retained, so
// consecutive Resets rewind to the same point.
func (c *cursor) Reset() error {
	if c.mark < 0 {
		return ErrInvalidMark
	}
	c.position = c.mark
	return nil
}

// Clear prepares the buffer for a fresh sequence of writes: position zero,
// limit at capacity, mark discarded. The contents are untouched.
func (c *cursor) Clear() {
	c.position = 0
	c.limit = c.capacity
	c.mark = -1
}

// Flip prepares the buffer for reading back what was just written: the limit
// moves to the current position, the position moves to zero and the mark is
// discarded.
func (c *cursor) Flip() {
	c.limit = c.position
	c.position = 0
	c.mark = -1
}

// Rewind moves the position to zero and discards the mark, leaving the limit
// unchanged.
func (c *cursor) Rewind() {
	c.position = 0
	c.mark = -1
}

// Remaining returns the number of elements between the position and the
// limit.
func (c *cursor) Remaining() int { return c.limit - c.position }

// HasRemaining reports whether any elements remain between the position and
// the limit.
func (c *cursor) HasRemaining() bool { return c.position < c.limit }

// nextGetIndex validates that n elements remain for a relative read, returns
// the current position and advances it by n.
func (c *cursor) nextGetIndex(n int) (int, error) {
	if c.limit-c.position < n {
		return 0, ErrUnderflow
	}
	p := c.position
	c.position += n
	return p, nil
}

// nextPutIndex validates that n elements remain for a relative write, returns
// the current position and advances it by n.
func (c *cursor) nextPutIndex(n int) (int, error) {
	if c.limit-c.position < n {
		return 0, ErrOverflow
	}
	p := c.position
	c.position += n
	return p, nil
}

// checkIndex validates an absolute access of n elements at index i without
// moving the position.
func (c *cursor) checkIndex(i, n int) error {
	if i < 0 || n > c.limit-i {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, width %d, limit %d", i, n, c.limit)
	}
	return nil
}

func (c *cursor) String() string {
	return fmt.Sprintf("[pos=%d lim=%d cap=%d]", c.position, c.limit, c.capacity)
}

// checkBounds validates that the region [off, off+length) lies within
// [0, size). The bitwise-or test rejects negative inputs and overflowing
// sums in one comparison.
func checkBounds(off, length, size int) error {
	if off|length|(off+length)|(size-(off+length)) < 0 {
		return errors.Wrapf(ErrIndexOutOfBounds, "region [%d, %d+%d) outside [0, %d)", off, off, length, size)
	}
	return nil
}

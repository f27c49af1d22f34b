package membuf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// storageKind tags where a buffer's elements physically live.
type storageKind int

const (
	heapStorage storageKind = iota
	directStorage
	mappedStorage
)

func (k storageKind) String() string {
	switch k {
	case directStorage:
		return "direct"
	case mappedStorage:
		return "mapped"
	default:
		return "heap"
	}
}

// ByteBuffer is a fixed-capacity buffer of bytes with a mutable cursor.
//
// Several ByteBuffers may alias the same storage (Slice, Duplicate,
// AsReadOnly, typed views); each holds fully independent cursor fields, and a
// write through one alias is visible through all others. No operation is
// safe for concurrent use; callers serialize access externally.
type ByteBuffer struct {
	cursor
	data     []byte // full shared storage
	offset   int    // index 0 of this buffer within data
	order    binary.ByteOrder
	readOnly bool
	kind     storageKind
	region   *mappedRegion // set iff kind == mappedStorage
}

// Allocate creates a ByteBuffer over a fresh heap slice of the given
// capacity.
func Allocate(capacity int) (*ByteBuffer, error) {
	if capacity < 0 {
		return nil, errors.Wrapf(ErrIllegalArgument, "negative capacity %d", capacity)
	}

	return &ByteBuffer{
		cursor: newCursor(capacity),
		data:   make([]byte, capacity),
		order:  binary.BigEndian,
	}, nil
}

// MustAllocate panics if Allocate fails
func MustAllocate(capacity int) *ByteBuffer {
	b, err := Allocate(capacity)
	if err != nil {
		panic(err)
	}
	return b
}

// Wrap creates a ByteBuffer over the passed slice. The slice is shared, not
// copied: writes through the buffer are visible in the slice and vice versa.
func Wrap(data []byte) *ByteBuffer {
	return &ByteBuffer{
		cursor: newCursor(len(data)),
		data:   data,
		order:  binary.BigEndian,
	}
}

// WrapRange creates a ByteBuffer over the passed slice with the position at
// off and the limit at off+length. The capacity is the full slice length.
func WrapRange(data []byte, off, length int) (*ByteBuffer, error) {
	if err := checkBounds(off, length, len(data)); err != nil {
		return nil, err
	}

	b := Wrap(data)
	b.limit = off + length
	b.position = off
	return b, nil
}

// Order returns the byte order used by the multi-byte accessors.
func (b *ByteBuffer) Order() binary.ByteOrder { return b.order }

// SetOrder sets the byte order used by the multi-byte accessors. Single-byte
// operations are unaffected. Views already derived from this buffer keep the
// order they were created with.
func (b *ByteBuffer) SetOrder(o binary.ByteOrder) { b.order = o }

// IsReadOnly reports whether mutating operations are rejected.
func (b *ByteBuffer) IsReadOnly() bool { return b.readOnly }

// IsDirect reports whether the buffer's elements live outside the Go heap.
func (b *ByteBuffer) IsDirect() bool { return b.kind != heapStorage }

// IsMapped reports whether the buffer is backed by a file mapping.
func (b *ByteBuffer) IsMapped() bool { return b.kind == mappedStorage }

// HasArray reports whether Array and ArrayOffset will succeed.
func (b *ByteBuffer) HasArray() bool { return b.kind == heapStorage && !b.readOnly }

// Array returns the slice backing this buffer. It fails with
// ErrReadOnlyBuffer on a read-only view and with ErrUnsupported on direct
// and mapped storage.
func (b *ByteBuffer) Array() ([]byte, error) {
	if b.kind != heapStorage {
		return nil, ErrUnsupported
	}
	if b.readOnly {
		return nil, ErrReadOnlyBuffer
	}
	return b.data, nil
}

// ArrayOffset returns the index within the backing slice of this buffer's
// element zero, under the same conditions as Array.
func (b *ByteBuffer) ArrayOffset() (int, error) {
	if b.kind != heapStorage {
		return 0, ErrUnsupported
	}
	if b.readOnly {
		return 0, ErrReadOnlyBuffer
	}
	return b.offset, nil
}

// Get reads the byte at the position and advances it by one.
func (b *ByteBuffer) Get() (byte, error) {
	p, err := b.nextGetIndex(1)
	if err != nil {
		return 0, err
	}
	return b.data[b.offset+p], nil
}

// MustGet panics if Get fails
func (b *ByteBuffer) MustGet() byte {
	v, err := b.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// GetAt reads the byte at the given index without moving the position.
func (b *ByteBuffer) GetAt(i int) (byte, error) {
	if err := b.checkIndex(i, 1); err != nil {
		return 0, err
	}
	return b.data[b.offset+i], nil
}

// Put writes a byte at the position and advances it by one.
func (b *ByteBuffer) Put(v byte) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	p, err := b.nextPutIndex(1)
	if err != nil {
		return err
	}
	b.data[b.offset+p] = v
	return nil
}

// MustPut panics if Put fails
func (b *ByteBuffer) MustPut(v byte) {
	if err := b.Put(v); err != nil {
		panic(err)
	}
}

// PutAt writes a byte at the given index without moving the position.
func (b *ByteBuffer) PutAt(i int, v byte) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := b.checkIndex(i, 1); err != nil {
		return err
	}
	b.data[b.offset+i] = v
	return nil
}

// GetUint16 reads two bytes at the position in the buffer's byte order and
// advances the position by two.
func (b *ByteBuffer) GetUint16() (uint16, error) {
	p, err := b.nextGetIndex(2)
	if err != nil {
		return 0, err
	}
	return b.order.Uint16(b.data[b.offset+p:]), nil
}

// GetUint16At reads two bytes at the given index without moving the position.
func (b *ByteBuffer) GetUint16At(i int) (uint16, error) {
	if err := b.checkIndex(i, 2); err != nil {
		return 0, err
	}
	return b.order.Uint16(b.data[b.offset+i:]), nil
}

// PutUint16 writes two bytes at the position in the buffer's byte order and
// advances the position by two.
func (b *ByteBuffer) PutUint16(v uint16) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	p, err := b.nextPutIndex(2)
	if err != nil {
		return err
	}
	b.order.PutUint16(b.data[b.offset+p:], v)
	return nil
}

// MustPutUint16 panics if PutUint16 fails
func (b *ByteBuffer) MustPutUint16(v uint16) {
	if err := b.PutUint16(v); err != nil {
		panic(err)
	}
}

// PutUint16At writes two bytes at the given index without moving the
// position.
func (b *ByteBuffer) PutUint16At(i int, v uint16) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := b.checkIndex(i, 2); err != nil {
		return err
	}
	b.order.PutUint16(b.data[b.offset+i:], v)
	return nil
}

// GetUint32 reads four bytes at the position in the buffer's byte order and
// advances the position by four.
func (b *ByteBuffer) GetUint32() (uint32, error) {
	p, err := b.nextGetIndex(4)
	if err != nil {
		return 0, err
	}
	return b.order.Uint32(b.data[b.offset+p:]), nil
}

// GetUint32At reads four bytes at the given index without moving the
// position.
func (b *ByteBuffer) GetUint32At(i int) (uint32, error) {
	if err := b.checkIndex(i, 4); err != nil {
		return 0, err
	}
	return b.order.Uint32(b.data[b.offset+i:]), nil
}

// PutUint32 writes four bytes at the position in the buffer's byte order and
// advances the position by four.
func (b *ByteBuffer) PutUint32(v uint32) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	p, err := b.nextPutIndex(4)
	if err != nil {
		return err
	}
	b.order.PutUint32(b.data[b.offset+p:], v)
	return nil
}

// MustPutUint32 panics if PutUint32 fails
func (b *ByteBuffer) MustPutUint32(v uint32) {
	if err := b.PutUint32(v); err != nil {
		panic(err)
	}
}

// PutUint32At writes four bytes at the given index without moving the
// position.
func (b *ByteBuffer) PutUint32At(i int, v uint32) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := b.checkIndex(i, 4); err != nil {
		return err
	}
	b.order.PutUint32(b.data[b.offset+i:], v)
	return nil
}

// GetUint64 reads eight bytes at the position in the buffer's byte order and
// advances the position by eight.
func (b *ByteBuffer) GetUint64() (uint64, error) {
	p, err := b.nextGetIndex(8)
	if err != nil {
		return 0, err
	}
	return b.order.Uint64(b.data[b.offset+p:]), nil
}

// GetUint64At reads eight bytes at the given index without moving the
// position.
func (b *ByteBuffer) GetUint64At(i int) (uint64, error) {
	if err := b.checkIndex(i, 8); err != nil {
		return 0, err
	}
	return b.order.Uint64(b.data[b.offset+i:]), nil
}

// PutUint64 writes eight bytes at the position in the buffer's byte order
// and advances the position by eight.
func (b *ByteBuffer) PutUint64(v uint64) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	p, err := b.nextPutIndex(8)
	if err != nil {
		return err
	}
	b.order.PutUint64(b.data[b.offset+p:], v)
	return nil
}

// MustPutUint64 panics if PutUint64 fails
func (b *ByteBuffer) MustPutUint64(v uint64) {
	if err := b.PutUint64(v); err != nil {
		panic(err)
	}
}

// PutUint64At writes eight bytes at the given index without moving the
// position.
func (b *ByteBuffer) PutUint64At(i int, v uint64) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := b.checkIndex(i, 8); err != nil {
		return err
	}
	b.order.PutUint64(b.data[b.offset+i:], v)
	return nil
}

// GetBytes fills dst with the next len(dst) bytes, advancing the position.
// If fewer than len(dst) bytes remain it fails with ErrUnderflow and
// transfers nothing.
func (b *ByteBuffer) GetBytes(dst []byte) error {
	return b.GetBytesRange(dst, 0, len(dst))
}

// GetBytesRange fills dst[off:off+length] with the next length bytes,
// advancing the position. A failed transfer moves nothing.
func (b *ByteBuffer) GetBytesRange(dst []byte, off, length int) error {
	if err := checkBounds(off, length, len(dst)); err != nil {
		return err
	}
	if length > b.Remaining() {
		return ErrUnderflow
	}

	copy(dst[off:off+length], b.data[b.offset+b.position:])
	b.position += length
	return nil
}

// MustGetBytes panics if GetBytes fails
func (b *ByteBuffer) MustGetBytes(dst []byte) {
	if err := b.GetBytes(dst); err != nil {
		panic(err)
	}
}

// PutBytes writes all of src at the position, advancing it. If fewer than
// len(src) bytes remain it fails with ErrOverflow and transfers nothing.
func (b *ByteBuffer) PutBytes(src []byte) error {
	return b.PutBytesRange(src, 0, len(src))
}

// PutBytesRange writes src[off:off+length] at the position, advancing it.
// A failed transfer moves nothing.
func (b *ByteBuffer) PutBytesRange(src []byte, off, length int) error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := checkBounds(off, length, len(src)); err != nil {
		return err
	}
	if length > b.Remaining() {
		return ErrOverflow
	}

	copy(b.data[b.offset+b.position:], src[off:off+length])
	b.position += length
	return nil
}

// MustPutBytes panics if PutBytes fails
func (b *ByteBuffer) MustPutBytes(src []byte) {
	if err := b.PutBytes(src); err != nil {
		panic(err)
	}
}

// PutString writes a string at the position, advancing it.
func (b *ByteBuffer) PutString(val string) error {
	return b.PutBytes([]byte(val))
}

// MustPutString panics if PutString fails
func (b *ByteBuffer) MustPutString(val string) {
	if err := b.PutString(val); err != nil {
		panic(err)
	}
}

// PutBuffer transfers the bytes remaining in src into this buffer, advancing
// both positions. Putting a buffer into itself fails with
// ErrIllegalArgument. When the two buffers share a storage kind the transfer
// is a single copy; across kinds it moves element by element through the
// public accessors.
func (b *ByteBuffer) PutBuffer(src *ByteBuffer) error {
	if src == b {
		return errors.Wrap(ErrIllegalArgument, "buffer put into itself")
	}
	if b.readOnly {
		return ErrReadOnlyBuffer
	}

	n := src.Remaining()
	if n > b.Remaining() {
		return ErrOverflow
	}

	if src.kind == b.kind {
		copy(b.data[b.offset+b.position:], src.data[src.offset+src.position:src.offset+src.limit])
		b.position += n
		src.position += n
		return nil
	}

	for i := 0; i < n; i++ {
		v, err := src.GetAt(src.position + i)
		if err != nil {
			return err
		}
		if err := b.PutAt(b.position+i, v); err != nil {
			return err
		}
	}
	b.position += n
	src.position += n
	return nil
}

// Slice returns a new buffer over this buffer's remaining elements. The new
// buffer's element zero is this buffer's current position; its capacity and
// limit equal Remaining. The storage is shared, the cursors are independent,
// and the slice inherits the read-only flag, storage kind and current byte
// order.
func (b *ByteBuffer) Slice() *ByteBuffer {
	return &ByteBuffer{
		cursor:   newCursor(b.Remaining()),
		data:     b.data,
		offset:   b.offset + b.position,
		order:    b.order,
		readOnly: b.readOnly,
		kind:     b.kind,
		region:   b.region,
	}
}

// Duplicate returns a new buffer over exactly this buffer's storage range
// with a copy of the current cursor state. The storage is shared and the
// cursors are independent thereafter.
func (b *ByteBuffer) Duplicate() *ByteBuffer {
	dup := *b
	return &dup
}

// AsReadOnly returns a Duplicate whose mutating operations fail with
// ErrReadOnlyBuffer.
func (b *ByteBuffer) AsReadOnly() *ByteBuffer {
	dup := *b
	dup.readOnly = true
	return &dup
}

// Compact moves the bytes between the position and the limit to the start of
// the buffer, sets the position to the number of bytes moved and the limit
// to the capacity, and discards the mark. The cursor is left ready to append
// after a partial drain.
func (b *ByteBuffer) Compact() error {
	if b.readOnly {
		return ErrReadOnlyBuffer
	}

	n := b.Remaining()
	copy(b.data[b.offset:], b.data[b.offset+b.position:b.offset+b.limit])
	b.position = n
	b.limit = b.capacity
	b.mark = -1
	return nil
}

// Equal reports whether the two buffers hold identical bytes between their
// positions and limits. Neither cursor moves. A nil buffer equals nothing.
func (b *ByteBuffer) Equal(other *ByteBuffer) bool {
	if other == nil {
		return false
	}
	if b.Remaining() != other.Remaining() {
		return false
	}
	return bytes.Equal(
		b.data[b.offset+b.position:b.offset+b.limit],
		other.data[other.offset+other.position:other.offset+other.limit],
	)
}

// Write implements io.Writer in terms of PutBytes, so a ByteBuffer can be
// the target of binary.Write and friends.
func (b *ByteBuffer) Write(p []byte) (int, error) {
	if err := b.PutBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read implements io.Reader over the remaining bytes. It returns io.EOF once
// the position reaches the limit.
func (b *ByteBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := b.Remaining()
	if n == 0 {
		return 0, io.EOF
	}
	if n > len(p) {
		n = len(p)
	}

	copy(p, b.data[b.offset+b.position:b.offset+b.position+n])
	b.position += n
	return n, nil
}

// MustSetPosition panics if SetPosition fails
func (b *ByteBuffer) MustSetPosition(n int) {
	if err := b.SetPosition(n); err != nil {
		panic(err)
	}
}

// MustSetLimit panics if SetLimit fails
func (b *ByteBuffer) MustSetLimit(n int) {
	if err := b.SetLimit(n); err != nil {
		panic(err)
	}
}

package membuf

import (
	"encoding/binary"
	"math"
)

// fixed constrains view element types to the fixed-width scalars the package
// knows how to encode.
type fixed interface {
	~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// codec reads and writes a single element at the start of a byte slice.
type codec[T fixed] struct {
	width int
	get   func(binary.ByteOrder, []byte) T
	put   func(binary.ByteOrder, []byte, T)
}

var codecUint16 = codec[uint16]{
	width: 2,
	get:   func(o binary.ByteOrder, b []byte) uint16 { return o.Uint16(b) },
	put:   func(o binary.ByteOrder, b []byte, v uint16) { o.PutUint16(b, v) },
}

var codecInt16 = codec[int16]{
	width: 2,
	get:   func(o binary.ByteOrder, b []byte) int16 { return int16(o.Uint16(b)) },
	put:   func(o binary.ByteOrder, b []byte, v int16) { o.PutUint16(b, uint16(v)) },
}

var codecUint32 = codec[uint32]{
	width: 4,
	get:   func(o binary.ByteOrder, b []byte) uint32 { return o.Uint32(b) },
	put:   func(o binary.ByteOrder, b []byte, v uint32) { o.PutUint32(b, v) },
}

var codecInt32 = codec[int32]{
	width: 4,
	get:   func(o binary.ByteOrder, b []byte) int32 { return int32(o.Uint32(b)) },
	put:   func(o binary.ByteOrder, b []byte, v int32) { o.PutUint32(b, uint32(v)) },
}

var codecUint64 = codec[uint64]{
	width: 8,
	get:   func(o binary.ByteOrder, b []byte) uint64 { return o.Uint64(b) },
	put:   func(o binary.ByteOrder, b []byte, v uint64) { o.PutUint64(b, v) },
}

var codecInt64 = codec[int64]{
	width: 8,
	get:   func(o binary.ByteOrder, b []byte) int64 { return int64(o.Uint64(b)) },
	put:   func(o binary.ByteOrder, b []byte, v int64) { o.PutUint64(b, uint64(v)) },
}

var codecFloat32 = codec[float32]{
	width: 4,
	get:   func(o binary.ByteOrder, b []byte) float32 { return math.Float32frombits(o.Uint32(b)) },
	put:   func(o binary.ByteOrder, b []byte, v float32) { o.PutUint32(b, math.Float32bits(v)) },
}

var codecFloat64 = codec[float64]{
	width: 8,
	get:   func(o binary.ByteOrder, b []byte) float64 { return math.Float64frombits(o.Uint64(b)) },
	put:   func(o binary.ByteOrder, b []byte, v float64) { o.PutUint64(b, math.Float64bits(v)) },
}

// View is a fixed-width typed reinterpretation of a ByteBuffer's storage.
//
// A view addresses whole elements: its capacity is the number of complete
// elements between the source's position and limit at creation time, and its
// byte order is fixed when it is created. The storage is shared with the
// source, the cursor is independent.
type View[T fixed] struct {
	cursor
	data     []byte
	offset   int // byte offset of element zero within data
	order    binary.ByteOrder
	readOnly bool
	kind     storageKind
	cdc      codec[T]
}

func newView[T fixed](b *ByteBuffer, cdc codec[T]) *View[T] {
	return &View[T]{
		cursor:   newCursor(b.Remaining() / cdc.width),
		data:     b.data,
		offset:   b.offset + b.position,
		order:    b.order,
		readOnly: b.readOnly,
		kind:     b.kind,
		cdc:      cdc,
	}
}

// AsUint16Buffer returns a uint16 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsUint16Buffer() *View[uint16] { return newView(b, codecUint16) }

// AsInt16Buffer returns an int16 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsInt16Buffer() *View[int16] { return newView(b, codecInt16) }

// AsUint32Buffer returns a uint32 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsUint32Buffer() *View[uint32] { return newView(b, codecUint32) }

// AsInt32Buffer returns an int32 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsInt32Buffer() *View[int32] { return newView(b, codecInt32) }

// AsUint64Buffer returns a uint64 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsUint64Buffer() *View[uint64] { return newView(b, codecUint64) }

// AsInt64Buffer returns an int64 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsInt64Buffer() *View[int64] { return newView(b, codecInt64) }

// AsFloat32Buffer returns a float32 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsFloat32Buffer() *View[float32] { return newView(b, codecFloat32) }

// AsFloat64Buffer returns a float64 view over this buffer's remaining bytes.
func (b *ByteBuffer) AsFloat64Buffer() *View[float64] { return newView(b, codecFloat64) }

func (v *View[T]) byteIndex(i int) int { return v.offset + i*v.cdc.width }

// Order returns the byte order the view was created with.
func (v *View[T]) Order() binary.ByteOrder { return v.order }

// IsReadOnly reports whether mutating operations are rejected.
func (v *View[T]) IsReadOnly() bool { return v.readOnly }

// IsDirect reports whether the view's elements live outside the Go heap.
func (v *View[T]) IsDirect() bool { return v.kind != heapStorage }

// Get reads the element at the position and advances it by one.
func (v *View[T]) Get() (T, error) {
	var zero T
	p, err := v.nextGetIndex(1)
	if err != nil {
		return zero, err
	}
	return v.cdc.get(v.order, v.data[v.byteIndex(p):]), nil
}

// GetAt reads the element at the given index without moving the position.
func (v *View[T]) GetAt(i int) (T, error) {
	var zero T
	if err := v.checkIndex(i, 1); err != nil {
		return zero, err
	}
	return v.cdc.get(v.order, v.data[v.byteIndex(i):]), nil
}

// Put writes an element at the position and advances it by one.
func (v *View[T]) Put(val T) error {
	if v.readOnly {
		return ErrReadOnlyBuffer
	}
	p, err := v.nextPutIndex(1)
	if err != nil {
		return err
	}
	v.cdc.put(v.order, v.data[v.byteIndex(p):], val)
	return nil
}

// MustPut panics if Put fails
func (v *View[T]) MustPut(val T) {
	if err := v.Put(val); err != nil {
		panic(err)
	}
}

// PutAt writes an element at the given index without moving the position.
func (v *View[T]) PutAt(i int, val T) error {
	if v.readOnly {
		return ErrReadOnlyBuffer
	}
	if err := v.checkIndex(i, 1); err != nil {
		return err
	}
	v.cdc.put(v.order, v.data[v.byteIndex(i):], val)
	return nil
}

// GetSlice fills dst with the next len(dst) elements, advancing the
// position. A failed transfer moves nothing.
func (v *View[T]) GetSlice(dst []T) error {
	if len(dst) > v.Remaining() {
		return ErrUnderflow
	}
	for i := range dst {
		dst[i] = v.cdc.get(v.order, v.data[v.byteIndex(v.position+i):])
	}
	v.position += len(dst)
	return nil
}

// PutSlice writes all of src at the position, advancing it. A failed
// transfer moves nothing.
func (v *View[T]) PutSlice(src []T) error {
	if v.readOnly {
		return ErrReadOnlyBuffer
	}
	if len(src) > v.Remaining() {
		return ErrOverflow
	}
	for i, val := range src {
		v.cdc.put(v.order, v.data[v.byteIndex(v.position+i):], val)
	}
	v.position += len(src)
	return nil
}

// Slice returns a new view over this view's remaining elements with an
// independent cursor.
func (v *View[T]) Slice() *View[T] {
	return &View[T]{
		cursor:   newCursor(v.Remaining()),
		data:     v.data,
		offset:   v.byteIndex(v.position),
		order:    v.order,
		readOnly: v.readOnly,
		kind:     v.kind,
		cdc:      v.cdc,
	}
}

// Duplicate returns a new view over the same elements with a copy of the
// current cursor state.
func (v *View[T]) Duplicate() *View[T] {
	dup := *v
	return &dup
}

// AsReadOnly returns a Duplicate whose mutating operations fail with
// ErrReadOnlyBuffer.
func (v *View[T]) AsReadOnly() *View[T] {
	dup := *v
	dup.readOnly = true
	return &dup
}

// Compact moves the elements between the position and the limit to the
// start of the view, sets the position past them and the limit to the
// capacity, and discards the mark.
func (v *View[T]) Compact() error {
	if v.readOnly {
		return ErrReadOnlyBuffer
	}

	n := v.Remaining()
	copy(v.data[v.offset:], v.data[v.byteIndex(v.position):v.byteIndex(v.limit)])
	v.position = n
	v.limit = v.capacity
	v.mark = -1
	return nil
}

// MustSetPosition panics if SetPosition fails
func (v *View[T]) MustSetPosition(n int) {
	if err := v.SetPosition(n); err != nil {
		panic(err)
	}
}

package membuf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewTruncation(t *testing.T) {
	b := MustAllocate(11)
	b.MustSetPosition(1)

	// 10 bytes remain: 5 uint16 elements, 2 uint32, 1 uint64
	assert.Equal(t, 5, b.AsUint16Buffer().Capacity())
	assert.Equal(t, 2, b.AsUint32Buffer().Capacity())
	assert.Equal(t, 1, b.AsUint64Buffer().Capacity())

	v := b.AsUint32Buffer()
	assert.Equal(t, 2, v.Limit())
	assert.Equal(t, 0, v.Position())

	// the trailing partial element is unreachable through the view
	_, err := v.GetAt(2)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestViewAliasing(t *testing.T) {
	b := MustAllocate(8)
	v := b.AsUint32Buffer()

	require.NoError(t, v.Put(0xDEADBEEF))
	require.NoError(t, v.Put(0x01020304))

	// elements decode through the byte buffer at the same storage
	got, err := b.GetUint32At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), got)

	// byte writes through the source decode through the view
	require.NoError(t, b.PutAt(4, 0xFF))
	elem, err := v.GetAt(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF020304), elem)

	// the view cursor is element-denominated and independent
	assert.Equal(t, 2, v.Position())
	assert.Equal(t, 0, b.Position())
}

func TestViewOrderFixedAtCreation(t *testing.T) {
	b := MustAllocate(4)
	v := b.AsUint16Buffer()

	// changing the source order later does not retrack into the view
	b.SetOrder(binary.LittleEndian)
	little := b.AsUint16Buffer()

	require.NoError(t, v.Put(0x0102))
	assert.Equal(t, binary.BigEndian, v.Order())

	got, err := little.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), got)
}

func TestViewCursorOps(t *testing.T) {
	b := MustAllocate(16)
	v := b.AsUint32Buffer()

	require.NoError(t, v.Put(1))
	require.NoError(t, v.Put(2))
	require.NoError(t, v.Put(3))

	v.Flip()
	assert.Equal(t, 0, v.Position())
	assert.Equal(t, 3, v.Limit())

	first, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), first)

	v.Mark()
	_, err = v.Get()
	require.NoError(t, err)
	require.NoError(t, v.Reset())
	assert.Equal(t, 1, v.Position())

	require.NoError(t, v.Compact())
	assert.Equal(t, 2, v.Position())
	assert.Equal(t, 4, v.Limit())

	got, err := v.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got)
}

func TestViewSlices(t *testing.T) {
	b := MustAllocate(16)
	v := b.AsUint32Buffer()
	require.NoError(t, v.PutSlice([]uint32{10, 20, 30, 40}))

	v.Flip()
	v.MustSetPosition(2)

	s := v.Slice()
	assert.Equal(t, 2, s.Capacity())
	got, err := s.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), got)

	d := v.Duplicate()
	assert.Equal(t, 2, d.Position())
	assert.Equal(t, 4, d.Limit())

	r := v.AsReadOnly()
	assert.ErrorIs(t, r.Put(5), ErrReadOnlyBuffer)
	assert.ErrorIs(t, r.PutSlice([]uint32{5}), ErrReadOnlyBuffer)
	assert.ErrorIs(t, r.Compact(), ErrReadOnlyBuffer)
}

func TestViewBulk(t *testing.T) {
	b := MustAllocate(12)
	v := b.AsUint16Buffer()

	require.NoError(t, v.PutSlice([]uint16{1, 2, 3, 4, 5, 6}))
	assert.ErrorIs(t, v.PutSlice([]uint16{7}), ErrOverflow)

	v.Flip()
	dst := make([]uint16, 6)
	require.NoError(t, v.GetSlice(dst))
	assert.Equal(t, []uint16{1, 2, 3, 4, 5, 6}, dst)

	assert.ErrorIs(t, v.GetSlice(dst[:1]), ErrUnderflow)
}

func TestFloatViews(t *testing.T) {
	b := MustAllocate(16)

	f64 := b.AsFloat64Buffer()
	require.NoError(t, f64.Put(3.141592653589793))
	require.NoError(t, f64.Put(-2.5))

	f64.Flip()
	pi, err := f64.Get()
	require.NoError(t, err)
	assert.Equal(t, 3.141592653589793, pi)

	f32 := b.AsFloat32Buffer()
	require.NoError(t, f32.PutAt(0, 1.5))
	got, err := f32.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), got)
}

func TestSignedViews(t *testing.T) {
	b := MustAllocate(14)

	i16 := b.AsInt16Buffer()
	require.NoError(t, i16.Put(-1))
	got16, err := i16.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, int16(-1), got16)

	// -1 encodes as all ones regardless of width
	raw, err := b.GetUint16At(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFF), raw)

	i64 := b.AsInt64Buffer()
	require.NoError(t, i64.PutAt(0, -42))
	got64, err := i64.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), got64)
}

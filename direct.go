package membuf

import (
	"encoding/binary"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DirectBuffer is a ByteBuffer whose elements live outside the Go heap, in
// an anonymous mapping obtained from the OS.
//
// The mapping is released only by an explicit Free; a DirectBuffer that is
// simply dropped keeps its pages until the process exits. Views derived from
// the buffer share the mapping and must not be used after Free.
type DirectBuffer struct {
	*ByteBuffer
	mem mmap.MMap
}

// AllocateDirect creates a DirectBuffer of the given capacity backed by an
// anonymous mapping.
func AllocateDirect(capacity int) (*DirectBuffer, error) {
	if capacity < 0 {
		return nil, errors.Wrapf(ErrIllegalArgument, "negative capacity %d", capacity)
	}

	var mem mmap.MMap
	if capacity > 0 {
		m, err := mmap.MapRegion(nil, capacity, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot map %d anonymous bytes", capacity)
		}
		mem = m
	}

	if logging {
		logger.Info("allocated direct buffer",
			zap.String("module", "direct"),
			zap.Int("capacity", capacity),
		)
	}

	return &DirectBuffer{
		ByteBuffer: &ByteBuffer{
			cursor: newCursor(capacity),
			data:   mem,
			order:  binary.BigEndian,
			kind:   directStorage,
		},
		mem: mem,
	}, nil
}

// Free releases the anonymous mapping. The buffer and every view derived
// from it must not be used afterwards.
func (b *DirectBuffer) Free() error {
	if b.mem == nil {
		return nil
	}

	if err := b.mem.Unmap(); err != nil {
		return errors.Wrap(err, "cannot unmap anonymous region")
	}
	b.mem = nil
	b.data = nil

	if logging {
		logger.Info("freed direct buffer",
			zap.String("module", "direct"),
			zap.Int("capacity", b.capacity),
		)
	}
	return nil
}

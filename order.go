package membuf

import (
	"encoding/binary"
	"unsafe"
)

// NativeOrder holds the byte order of the host, detected once at startup.
// The multi-byte accessors always honor the order set on the buffer; the
// native order is only relevant to callers laying out data for raw-copy
// consumers on the same machine.
var NativeOrder binary.ByteOrder = binary.LittleEndian

func init() {
	probe := uint16(1)
	if *(*byte)(unsafe.Pointer(&probe)) == 0 {
		NativeOrder = binary.BigEndian
	}
}

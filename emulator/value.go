package emulator

import (
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/wnxd/psxhook/encoding"
	"github.com/wnxd/psxhook/text"
)

// Read returns the little endian integer at off, or zero if it could not be
// read.
func Read[T constraints.Integer](emu Emulator, off uint32) T {
	var v T
	size := int(unsafe.Sizeof(v))
	raw := emu.Read(off, size)
	if len(raw) < size {
		return 0
	}
	return ReadPtrRaw[T](raw)
}

func Write[T constraints.Integer](emu Emulator, off uint32, v T) {
	emu.Write(off, ToPtrRaw(&v))
}

// ReadValue fills ptr, a pointer to a fixed layout value, from off.
func ReadValue(emu Emulator, off uint32, ptr any) error {
	return encoding.Decode(encoding.NewStream(emu, nil, int64(off)), ptr)
}

func WriteValue(emu Emulator, off uint32, val any) error {
	return encoding.Encode(encoding.NewStream(nil, emu, int64(off)), val)
}

// ReadString decodes a game string of at most n bytes at off.
func ReadString(emu Emulator, off uint32, n int) string {
	return text.Decode(emu.Read(off, n))
}

// WriteString stores s in an n byte field at off, padded with terminators.
func WriteString(emu Emulator, off uint32, s string, n int) {
	emu.Write(off, text.Encode(s, n))
}

func ReadPtrRaw[V any](raw []byte) V {
	return *(*V)(unsafe.Pointer(unsafe.SliceData(raw)))
}

func ToPtrRaw[S any](ptr *S) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), unsafe.Sizeof(*ptr))
}

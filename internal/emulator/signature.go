package emulator

import (
	"unsafe"

	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/process"
)

// VerifySignature reports whether emulated RAM starts at base. Every word of
// the kernel exception vector must match and any read error rejects.
func VerifySignature(proc process.Process, base uint64) bool {
	ram := process.ToPointer(proc, base)
	for _, sig := range layout.Signature {
		var v uint32
		err := ram.Add(uint64(sig.Offset)).MemReadPtr(4, unsafe.Pointer(&v))
		if err != nil || v != sig.Value {
			return false
		}
	}
	return true
}

package emulator

import (
	"iter"
	"unsafe"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/process"
)

const chunkSize = 0x100000

type window struct {
	addr, value uint64
}

// scanRegion yields every size-aligned little endian value in r. Chunks that
// cannot be read are skipped.
func scanRegion(proc process.Process, r process.MemRegion, size uint64) iter.Seq[window] {
	return func(yield func(window) bool) {
		begin, end := emulator.Align(r.Addr, size), emulator.AlignDown(r.End(), size)
		if begin >= end {
			return
		}
		buf := make([]byte, min(chunkSize, end-begin))
		for addr := begin; addr < end; {
			n := min(uint64(len(buf)), end-addr)
			chunk := buf[:n]
			err := proc.MemReadPtr(addr, n, unsafe.Pointer(unsafe.SliceData(chunk)))
			if err == nil {
				for i := uint64(0); i+size <= n; i += size {
					var v uint64
					if size == 4 {
						v = uint64(emulator.ReadPtrRaw[uint32](chunk[i:]))
					} else {
						v = emulator.ReadPtrRaw[uint64](chunk[i:])
					}
					if !yield(window{addr + i, v}) {
						return
					}
				}
			}
			addr += n
		}
	}
}

// clip limits r to the addresses it shares with bound.
func clip(r, bound process.MemRegion) (process.MemRegion, bool) {
	lo, hi := max(r.Addr, bound.Addr), min(r.End(), bound.End())
	if lo >= hi {
		return process.MemRegion{}, false
	}
	return process.MemRegion{Addr: lo, Size: hi - lo, Prot: r.Prot}, true
}

package process

import (
	"io"
	"iter"
	"unsafe"
)

// Process is an opened handle on another process's address space.
type Process interface {
	io.Closer
	Pid() int
	Arch() Arch
	MemRegions() iter.Seq[MemRegion]
	MemRead(addr, size uint64) ([]byte, error)
	MemWrite(addr uint64, data []byte) error
	MemReadPtr(addr, size uint64, ptr unsafe.Pointer) error
	Modules() (map[string]Module, error)
}

type Module struct {
	Name       string
	Base, Size uint64
}

func (m Module) Region() MemRegion {
	return MemRegion{Addr: m.Base, Size: m.Size, Prot: MEM_PROT_READ}
}

type Info struct {
	Pid  int
	Name string
}

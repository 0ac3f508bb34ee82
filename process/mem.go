package process

import "fmt"

type MemProt int

const (
	MEM_PROT_NONE MemProt = 0
	MEM_PROT_READ MemProt = 1 << (iota - 1)
	MEM_PROT_WRITE
	MEM_PROT_EXEC
	MEM_PROT_GUARD

	MEM_PROT_ALL = MEM_PROT_READ | MEM_PROT_WRITE | MEM_PROT_EXEC
)

type MemRegion struct {
	Addr, Size uint64
	Prot       MemProt
}

func (r MemRegion) End() uint64 {
	return r.Addr + r.Size
}

func (r MemRegion) Contains(addr uint64) bool {
	return addr >= r.Addr && addr < r.End()
}

func (r MemRegion) Readable() bool {
	return r.Prot&MEM_PROT_READ != 0
}

func (r MemRegion) Writable() bool {
	return r.Prot&MEM_PROT_WRITE != 0
}

func (r MemRegion) Guarded() bool {
	return r.Prot&MEM_PROT_GUARD != 0
}

func (p MemProt) String() string {
	b := []byte("----")
	if p&MEM_PROT_READ != 0 {
		b[0] = 'r'
	}
	if p&MEM_PROT_WRITE != 0 {
		b[1] = 'w'
	}
	if p&MEM_PROT_EXEC != 0 {
		b[2] = 'x'
	}
	if p&MEM_PROT_GUARD != 0 {
		b[3] = 'g'
	}
	return string(b)
}

func (r MemRegion) String() string {
	return fmt.Sprintf("%016X-%016X %s", r.Addr, r.End(), r.Prot)
}

package process

import (
	"unsafe"
)

type Pointer struct {
	proc Process
	addr uint64
}

func ToPointer(proc Process, addr uint64) Pointer {
	return Pointer{proc, addr}
}

func (p Pointer) Address() uint64 {
	return p.addr
}

func (p Pointer) Add(offset uint64) Pointer {
	return Pointer{p.proc, p.addr + offset}
}

func (p Pointer) Sub(offset uint64) Pointer {
	return Pointer{p.proc, p.addr - offset}
}

func (p Pointer) MemRead(size uint64) ([]byte, error) {
	return p.proc.MemRead(p.addr, size)
}

func (p Pointer) MemWrite(data []byte) error {
	return p.proc.MemWrite(p.addr, data)
}

func (p Pointer) MemReadPtr(size uint64, ptr unsafe.Pointer) error {
	return p.proc.MemReadPtr(p.addr, size, ptr)
}

func (p Pointer) MemReadPointer() (ptr Pointer, err error) {
	size := p.proc.Arch().PointerSize()
	if size == 0 {
		err = ErrArchUnsupported
		return
	}
	var addr uint64
	err = p.MemReadPtr(size, unsafe.Pointer(&addr))
	if err != nil {
		return
	}
	ptr.proc, ptr.addr = p.proc, addr
	return
}

func (p Pointer) ReadAt(b []byte, off int64) (n int, err error) {
	if len(b) == 0 {
		return 0, nil
	}
	err = p.proc.MemReadPtr(p.addr+uint64(off), uint64(len(b)), unsafe.Pointer(unsafe.SliceData(b)))
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p Pointer) WriteAt(b []byte, off int64) (n int, err error) {
	err = p.proc.MemWrite(p.addr+uint64(off), b)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

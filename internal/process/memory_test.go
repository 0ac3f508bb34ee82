package process

import (
	"errors"
	"slices"
	"testing"

	"github.com/wnxd/psxhook/internal/test"
	"github.com/wnxd/psxhook/process"
)

func TestMemoryReadWrite(t *testing.T) {
	mem := NewMemory(process.ARCH_X86_64)
	mem.Map(0x2000, []byte{1, 2, 3, 4}, process.MEM_PROT_READ|process.MEM_PROT_WRITE)
	mem.MapZero(0x1000, 0x10, process.MEM_PROT_READ)

	regions := slices.Collect(mem.MemRegions())
	test.DemandEquality(t, len(regions), 2)
	test.ExpectEquality(t, regions[0].Addr, 0x1000)
	test.ExpectEquality(t, regions[1].Addr, 0x2000)

	b, err := mem.MemRead(0x2001, 2)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "\x02\x03")

	test.DemandSuccess(t, mem.MemWrite(0x2002, []byte{9}))
	b, _ = mem.MemRead(0x2000, 4)
	test.ExpectEquality(t, string(b), "\x01\x02\x09\x04")

	p := process.ToPointer(mem, 0x2000).Add(1)
	var buf [2]byte
	n, err := p.ReadAt(buf[:], 1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, buf, [2]byte{9, 4})
}

func TestMemoryFaults(t *testing.T) {
	mem := NewMemory(process.ARCH_X86)
	mem.MapZero(0x1000, 0x10, process.MEM_PROT_READ)
	mem.MapZero(0x2000, 0x10, process.MEM_PROT_READ|process.MEM_PROT_GUARD)

	tests := []struct {
		name       string
		addr, size uint64
	}{
		{"unmapped", 0x3000, 4},
		{"crossing end", 0x100E, 4},
		{"guarded", 0x2000, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mem.MemRead(tt.addr, tt.size)
			test.ExpectSuccess(t, errors.Is(err, process.ErrReadFault))
			var fault *process.FaultError
			test.DemandSuccess(t, errors.As(err, &fault))
			test.ExpectEquality(t, fault.Addr, tt.addr)
		})
	}

	err := mem.MemWrite(0x3000, []byte{1})
	test.ExpectSuccess(t, errors.Is(err, process.ErrWriteFault))

	mem.Fail(true)
	_, err = mem.MemRead(0x1000, 4)
	test.ExpectSuccess(t, errors.Is(err, process.ErrReadFault))
	mem.Fail(false)
	_, err = mem.MemRead(0x1000, 4)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, mem.Close())
	_, err = mem.MemRead(0x1000, 4)
	test.ExpectSuccess(t, errors.Is(err, process.ErrClosed))
	test.ExpectEquality(t, mem.Reads(), 6)
}

func TestPointerSize(t *testing.T) {
	mem := NewMemory(process.ARCH_X86)
	mem.Map(0x1000, []byte{0x78, 0x56, 0x34, 0x12, 0xFF, 0xFF, 0xFF, 0xFF}, process.MEM_PROT_READ)
	ptr, err := process.ToPointer(mem, 0x1000).MemReadPointer()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ptr.Address(), 0x12345678)

	_, err = process.ToPointer(NewMemory(process.ARCH_UNKNOWN), 0).MemReadPointer()
	test.ExpectSuccess(t, errors.Is(err, process.ErrArchUnsupported))
}

package emulator

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/wnxd/psxhook/emulator"
	iprocess "github.com/wnxd/psxhook/internal/process"
	"github.com/wnxd/psxhook/internal/test"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/process"
)

const rw = process.MEM_PROT_READ | process.MEM_PROT_WRITE

func writeSignature(t *testing.T, mem *iprocess.Memory, base uint64) {
	t.Helper()
	for _, sig := range layout.Signature {
		err := mem.MemWrite(base+uint64(sig.Offset), binary.LittleEndian.AppendUint32(nil, sig.Value))
		test.DemandSuccess(t, err)
	}
}

func mapRAM(t *testing.T, mem *iprocess.Memory, base uint64) {
	t.Helper()
	mem.MapZero(base, layout.RAMSize, rw)
	writeSignature(t, mem, base)
}

func pointerRegion(arch process.Arch, size int, values map[int]uint64) []byte {
	b := make([]byte, size)
	for off, v := range values {
		if arch == process.ARCH_X86 {
			binary.LittleEndian.PutUint32(b[off:], uint32(v))
		} else {
			binary.LittleEndian.PutUint64(b[off:], v)
		}
	}
	return b
}

func TestVerifySignature(t *testing.T) {
	const base = 0x20000000
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	mapRAM(t, mem, base)
	test.ExpectSuccess(t, VerifySignature(mem, base))
	test.ExpectFailure(t, VerifySignature(mem, base+4))
	test.ExpectFailure(t, VerifySignature(mem, 0x30000000))

	for _, sig := range layout.Signature {
		for i := range 4 {
			addr := base + uint64(sig.Offset) + uint64(i)
			orig, err := mem.MemRead(addr, 1)
			test.DemandSuccess(t, err)
			test.DemandSuccess(t, mem.MemWrite(addr, []byte{orig[0] + 1}))
			test.ExpectFailure(t, VerifySignature(mem, base), sig.Offset, i)
			test.DemandSuccess(t, mem.MemWrite(addr, orig))
		}
	}
	test.ExpectSuccess(t, VerifySignature(mem, base))

	mem.Fail(true)
	test.ExpectFailure(t, VerifySignature(mem, base))
}

func TestPointerCandidatesPerRegion(t *testing.T) {
	const ram = 0x20000000
	tests := []struct {
		name string
		arch process.Arch
		step int
	}{
		{"x86_64", process.ARCH_X86_64, 8},
		{"x86", process.ARCH_X86, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := iprocess.NewMemory(tt.arch)
			mapRAM(t, mem, ram)

			// once in each of two regions: never counted together
			mem.Map(0x10000000, pointerRegion(tt.arch, 0x1000, map[int]uint64{0x10: ram}), rw)
			mem.Map(0x10010000, pointerRegion(tt.arch, 0x1000, map[int]uint64{0x20: ram}), rw)
			_, err := Discover(mem, emulator.DuckStation())
			test.ExpectSuccess(t, errors.Is(err, emulator.ErrOffsetUnverified))

			// a decoy pair first, then the real pair
			pair := pointerRegion(tt.arch, 0x1000, map[int]uint64{
				0x00:            0x30000000,
				tt.step * 4:     ram,
				tt.step * 8:     0x30000000,
				tt.step * 16:    ram,
				tt.step * 20:    0x40000001,
				tt.step * 21:    0x40000001,
				tt.step * 30:    0x50000000,
				tt.step * 31:    0x50000000,
				tt.step * 32:    0x50000000,
			})
			r := process.MemRegion{Addr: 0x10020000, Size: 0x1000, Prot: rw}
			mem.Map(r.Addr, pair, rw)
			candidates := pointerCandidates(mem, r)
			test.DemandEquality(t, len(candidates), 2)
			test.ExpectEquality(t, candidates[0], 0x30000000)
			test.ExpectEquality(t, candidates[1], ram)

			base, err := Discover(mem, emulator.DuckStation())
			test.DemandSuccess(t, err)
			test.ExpectEquality(t, base, ram)
		})
	}
}

func TestPointerCandidatesRange(t *testing.T) {
	mem := iprocess.NewMemory(process.ARCH_X86)
	r := process.MemRegion{Addr: 0x1000, Size: 0x100, Prot: rw}
	mem.Map(r.Addr, pointerRegion(process.ARCH_X86, 0x100, map[int]uint64{
		0x00: 0x8000, 0x04: 0x8000, // below heap
		0x08: 0x7FFF0000, 0x0C: 0x7FFF0000, // above heap on x86
		0x10: 0x100000, 0x14: 0x100000,
	}), rw)
	candidates := pointerCandidates(mem, r)
	test.DemandEquality(t, len(candidates), 1)
	test.ExpectEquality(t, candidates[0], 0x100000)
}

func TestHeapPointerSkipsProtected(t *testing.T) {
	const ram = 0x20000000
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	mapRAM(t, mem, ram)
	values := map[int]uint64{0x00: ram, 0x08: ram}
	mem.Map(0x10000000, pointerRegion(process.ARCH_X86_64, 0x100, values), process.MEM_PROT_READ)
	mem.Map(0x10010000, pointerRegion(process.ARCH_X86_64, 0x100, values), rw|process.MEM_PROT_GUARD)
	_, err := Discover(mem, emulator.DuckStation())
	test.ExpectSuccess(t, errors.Is(err, emulator.ErrOffsetUnverified))
}

func TestLibraryPattern(t *testing.T) {
	const (
		decoy  = 0x10000000
		module = 0x60000000
		ram    = 0x60100000
	)
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	mapRAM(t, mem, decoy)
	mem.MapZero(module, 0x100000, process.MEM_PROT_READ|process.MEM_PROT_EXEC)
	mapRAM(t, mem, ram)

	// pattern without the rest of the signature
	mem.MapZero(0x08000000, 0x1000, rw)
	test.DemandSuccess(t, mem.MemWrite(0x08000000+0x80, binary.LittleEndian.AppendUint32(nil, layout.SignaturePattern)))

	t.Run("library first", func(t *testing.T) {
		mem.AddModule("Octoshock.dll", module, 0x400000)
		base, err := Discover(mem, emulator.BizHawk())
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, base, ram)
	})

	t.Run("fallback", func(t *testing.T) {
		fam := emulator.BizHawk()
		fam.Library = "missing.dll"
		base, err := Discover(mem, fam)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, base, decoy)
	})
}

func TestLibraryPatternNotFound(t *testing.T) {
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	mem.MapZero(0x10000000, 0x1000, rw)
	test.DemandSuccess(t, mem.MemWrite(0x10000080, binary.LittleEndian.AppendUint32(nil, layout.SignaturePattern)))
	base, err := Discover(mem, emulator.BizHawk())
	test.ExpectEquality(t, base, 0)
	test.ExpectSuccess(t, errors.Is(err, emulator.ErrOffsetUnverified))
}

func TestDiscoverCustom(t *testing.T) {
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	base, err := Discover(mem, emulator.Custom(0x1234000))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, base, 0x1234000)

	_, err = Discover(mem, emulator.Custom(0))
	test.ExpectSuccess(t, errors.Is(err, emulator.ErrOffsetUnverified))

	_, err = Discover(mem, emulator.Family{Kind: 99})
	test.ExpectSuccess(t, errors.Is(err, emulator.ErrFamilyUnsupported))
}

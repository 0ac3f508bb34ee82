package emulator

import (
	"errors"
	"testing"

	"github.com/wnxd/psxhook/emulator"
	iprocess "github.com/wnxd/psxhook/internal/process"
	"github.com/wnxd/psxhook/internal/test"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/process"
)

const ramBase = 0x20000000

func newEmulator(t *testing.T) (emulator.Emulator, *iprocess.Memory) {
	t.Helper()
	mem := iprocess.NewMemory(process.ARCH_X86_64)
	mapRAM(t, mem, ramBase)
	return New(mem, ramBase), mem
}

func TestTypedAccess(t *testing.T) {
	emu, _ := newEmulator(t)
	defer emu.Close()

	emulator.Write[uint16](emu, layout.OffsetFieldID, 0x1234)
	test.ExpectEquality(t, emulator.Read[uint16](emu, layout.OffsetFieldID), 0x1234)
	test.ExpectEquality(t, emulator.Read[uint8](emu, layout.OffsetFieldID), 0x34)

	emulator.Write[uint32](emu, layout.OffsetFrame, 0xDEADBEEF)
	test.ExpectEquality(t, emulator.Read[uint32](emu, layout.OffsetFrame), 0xDEADBEEF)
	test.ExpectEquality(t, emulator.Read[int8](emu, layout.OffsetFrame+3), -34)

	test.ExpectEquality(t, emulator.Read[uint32](emu, 0x80), layout.SignaturePattern)
	test.ExpectFailure(t, emu.PollErrors())
}

func TestValueAccess(t *testing.T) {
	emu, _ := newEmulator(t)
	defer emu.Close()

	type slot struct {
		ID       uint16
		Quantity uint8
		Price    uint32
	}
	in := [2]slot{{1, 2, 300}, {4, 5, 600}}
	test.DemandSuccess(t, emulator.WriteValue(emu, layout.OffsetShopItems, &in))
	test.ExpectEquality(t, emulator.Read[uint16](emu, layout.OffsetShopItems+8), 4)
	test.ExpectEquality(t, emulator.Read[uint32](emu, layout.OffsetShopItems+12), 600)

	var out [2]slot
	test.DemandSuccess(t, emulator.ReadValue(emu, layout.OffsetShopItems, &out))
	test.ExpectEquality(t, out, in)
}

func TestStringAccess(t *testing.T) {
	emu, _ := newEmulator(t)
	defer emu.Close()

	emulator.WriteString(emu, 0x9C738, "Aeris", 12)
	test.ExpectEquality(t, emulator.ReadString(emu, 0x9C738, 12), "Aeris")
	test.ExpectEquality(t, emulator.Read[uint8](emu, 0x9C738+5), 0xFF)
	test.ExpectEquality(t, emulator.ReadString(emu, 0x9C738, 3), "Aer")
}

func TestStickyErrors(t *testing.T) {
	emu, mem := newEmulator(t)
	defer emu.Close()

	emulator.Write[uint8](emu, layout.OffsetModule, 2)
	test.ExpectFailure(t, emu.PollErrors())
	test.ExpectSuccess(t, emu.Err())

	mem.Fail(true)
	test.ExpectEquality(t, emulator.Read[uint8](emu, layout.OffsetModule), 0)
	test.ExpectSuccess(t, emu.PollErrors())

	mem.Fail(false)
	test.ExpectEquality(t, emulator.Read[uint8](emu, layout.OffsetModule), 2)
	test.ExpectSuccess(t, emu.PollErrors())
	test.ExpectSuccess(t, errors.Is(emu.Err(), process.ErrReadFault))
}

func TestOutOfRange(t *testing.T) {
	emu, mem := newEmulator(t)
	defer emu.Close()

	reads := mem.Reads()
	b := emu.Read(layout.RAMSize-1, 2)
	test.ExpectEquality(t, len(b), 2)
	test.ExpectEquality(t, mem.Reads(), reads)

	_, err := emu.ReadAt(make([]byte, 1), 0xFFFFFED8)
	test.ExpectSuccess(t, errors.Is(err, emulator.ErrOutOfRange))
	test.ExpectFailure(t, emu.PollErrors())
	test.ExpectSuccess(t, emu.Err())

	emulator.Write[uint8](emu, layout.OffsetModule, 2)
	test.ExpectEquality(t, emulator.Read[uint8](emu, layout.OffsetModule), 2)
	test.ExpectFailure(t, emu.PollErrors())
}

func TestClose(t *testing.T) {
	emu, mem := newEmulator(t)
	test.ExpectSuccess(t, emu.Close())
	test.ExpectSuccess(t, emu.Close())
	test.ExpectSuccess(t, mem.Closed())

	emu.Write(layout.OffsetModule, []byte{1})
	test.ExpectSuccess(t, errors.Is(emu.Err(), emulator.ErrNotAttached))
}

func TestAttachProcess(t *testing.T) {
	t.Run("custom", func(t *testing.T) {
		mem := iprocess.NewMemory(process.ARCH_X86_64)
		mapRAM(t, mem, ramBase)
		emu, err := AttachProcess(mem, emulator.Custom(ramBase))
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, emu.Base(), ramBase)
		test.ExpectEquality(t, emu.Process(), process.Process(mem))
		emu.Close()
	})

	t.Run("discovery failure", func(t *testing.T) {
		mem := iprocess.NewMemory(process.ARCH_X86_64)
		_, err := AttachProcess(mem, emulator.DuckStation())
		var attachErr *emulator.AttachError
		test.DemandSuccess(t, errors.As(err, &attachErr))
		test.ExpectEquality(t, attachErr.Stage, emulator.StageDiscover)
		test.ExpectEquality(t, err.Error(), "could not locate game memory: could not verify memory offset")
		test.ExpectSuccess(t, mem.Closed())
	})

	t.Run("sanity failure", func(t *testing.T) {
		mem := iprocess.NewMemory(process.ARCH_X86_64)
		mem.MapZero(ramBase, 0x1000, rw)
		_, err := AttachProcess(mem, emulator.Custom(ramBase))
		var attachErr *emulator.AttachError
		test.DemandSuccess(t, errors.As(err, &attachErr))
		test.ExpectEquality(t, attachErr.Stage, emulator.StageSanity)
		test.ExpectSuccess(t, errors.Is(err, process.ErrReadFault))
		test.ExpectSuccess(t, mem.Closed())
	})
}

package emulator

import (
	"fmt"
	"strings"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/logger"
	"github.com/wnxd/psxhook/process"
)

const heapMin = 0x10000

func heapMax(arch process.Arch) uint64 {
	if arch == process.ARCH_X86 {
		return 0x7FFF0000
	}
	return 0x7FFFFFFF0000
}

// Discover returns the address of emulated RAM inside proc.
func Discover(proc process.Process, fam emulator.Family) (uint64, error) {
	var base uint64
	switch fam.Kind {
	case emulator.FamilyHeapPointer:
		base = discoverHeapPointer(proc)
	case emulator.FamilyLibraryPattern:
		base = discoverLibraryPattern(proc, fam.Library)
	case emulator.FamilyCustom:
		base = fam.BaseAddr
	default:
		return 0, fmt.Errorf("%w: %v", emulator.ErrFamilyUnsupported, fam.Kind)
	}
	if base == 0 {
		return 0, emulator.ErrOffsetUnverified
	}
	logger.Logf(logger.Allow, "discover", "%s: emulated memory at %#x", fam.Name, base)
	return base, nil
}

func scannable(r process.MemRegion) bool {
	return r.Readable() && !r.Guarded()
}

// pointerCandidates returns the heap-like values stored exactly twice in r,
// in the order they were first seen.
func pointerCandidates(proc process.Process, r process.MemRegion) []uint64 {
	size := proc.Arch().PointerSize()
	if size == 0 {
		return nil
	}
	hi := heapMax(proc.Arch())
	counts := make(map[uint64]int)
	var order []uint64
	for w := range scanRegion(proc, r, size) {
		if w.value&7 != 0 || w.value < heapMin || w.value >= hi {
			continue
		}
		if counts[w.value] == 0 {
			order = append(order, w.value)
		}
		counts[w.value]++
	}
	var candidates []uint64
	for _, v := range order {
		if counts[v] == 2 {
			candidates = append(candidates, v)
		}
	}
	return candidates
}

// discoverHeapPointer takes the first candidate that verifies. Which pair of
// pointers belongs to the RAM buffer is not known, only that the buffer is
// referenced twice from the same allocation.
func discoverHeapPointer(proc process.Process) uint64 {
	tried := make(map[uint64]bool)
	for r := range proc.MemRegions() {
		if !scannable(r) || !r.Writable() {
			continue
		}
		for _, c := range pointerCandidates(proc, r) {
			if tried[c] {
				continue
			}
			tried[c] = true
			if VerifySignature(proc, c) {
				return c
			}
		}
	}
	logger.Logf(logger.Allow, "discover", "%d pointer candidates, none verified", len(tried))
	return 0
}

func scanPattern(proc process.Process, r process.MemRegion) uint64 {
	for w := range scanRegion(proc, r, 4) {
		if uint32(w.value) != layout.SignaturePattern || w.addr < layout.SignaturePatternOffset {
			continue
		}
		base := w.addr - layout.SignaturePatternOffset
		if VerifySignature(proc, base) {
			return base
		}
	}
	return 0
}

// discoverLibraryPattern scans the named library first, then everything.
func discoverLibraryPattern(proc process.Process, library string) uint64 {
	if library != "" {
		mod, err := findModule(proc, library)
		if err == nil {
			for r := range proc.MemRegions() {
				if !scannable(r) {
					continue
				}
				if r, ok := clip(r, mod.Region()); ok {
					if base := scanPattern(proc, r); base != 0 {
						return base
					}
				}
			}
			logger.Logf(logger.Allow, "discover", "no signature inside %s", mod.Name)
		} else {
			logger.Logf(logger.Allow, "discover", "%v", err)
		}
	}
	for r := range proc.MemRegions() {
		if !scannable(r) {
			continue
		}
		if base := scanPattern(proc, r); base != 0 {
			return base
		}
	}
	return 0
}

func findModule(proc process.Process, name string) (process.Module, error) {
	mods, err := proc.Modules()
	if err != nil {
		return process.Module{}, err
	}
	mod, ok := mods[strings.ToLower(name)]
	if !ok {
		return process.Module{}, fmt.Errorf("%w: %s", emulator.ErrLibraryNotLoaded, name)
	}
	return mod, nil
}

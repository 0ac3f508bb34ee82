package emulator

import (
	"fmt"
	"strings"
)

type FamilyKind int

const (
	// FamilyHeapPointer emulators keep a pointer to their RAM buffer in a
	// heap structure. The pointer is found by looking for values stored
	// exactly twice in one region.
	FamilyHeapPointer FamilyKind = iota
	// FamilyLibraryPattern emulators run the core from a library whose
	// memory holds RAM directly.
	FamilyLibraryPattern
	// FamilyCustom uses an address supplied by the user.
	FamilyCustom
)

func (k FamilyKind) String() string {
	switch k {
	case FamilyHeapPointer:
		return "heap pointer"
	case FamilyLibraryPattern:
		return "library pattern"
	case FamilyCustom:
		return "custom"
	}
	return fmt.Sprintf("family(%d)", int(k))
}

type Family struct {
	Kind FamilyKind
	Name string

	// Process is the executable name looked up when a Target names none.
	Process string

	// Library is scanned first by FamilyLibraryPattern.
	Library string

	// BaseAddr is the RAM address in the emulator for FamilyCustom.
	BaseAddr uint64
}

func DuckStation() Family {
	return Family{
		Kind:    FamilyHeapPointer,
		Name:    "duckstation",
		Process: "duckstation-qt-x64-ReleaseLTCG.exe",
	}
}

func BizHawk() Family {
	return Family{
		Kind:    FamilyLibraryPattern,
		Name:    "bizhawk",
		Process: "EmuHawk.exe",
		Library: "octoshock.dll",
	}
}

func Custom(addr uint64) Family {
	return Family{
		Kind:     FamilyCustom,
		Name:     "custom",
		BaseAddr: addr,
	}
}

// FamilyByName returns the preset called name. base is only used by custom.
func FamilyByName(name string, base uint64) (Family, error) {
	switch strings.ToLower(name) {
	case "duckstation":
		return DuckStation(), nil
	case "bizhawk":
		return BizHawk(), nil
	case "custom":
		return Custom(base), nil
	}
	return Family{}, fmt.Errorf("%w: %q", ErrFamilyUnsupported, name)
}

// Target identifies the emulator to attach to. A non-zero PID wins over
// Process, and an empty Process falls back to the family's default.
type Target struct {
	Process string
	PID     int
	Family  Family
}

func (t Target) ProcessName() string {
	if t.Process != "" {
		return t.Process
	}
	return t.Family.Process
}

func (t Target) String() string {
	if t.PID != 0 {
		return fmt.Sprintf("%s (pid %d)", t.Family.Name, t.PID)
	}
	return fmt.Sprintf("%s (%s)", t.Family.Name, t.ProcessName())
}

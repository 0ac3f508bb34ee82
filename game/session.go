package game

import (
	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/layout"
)

const sessionVersion = 1

var sessionMagic = [2]byte{'P', 'H'}

type sessionMarker struct {
	Magic   [2]byte
	Version uint8
	_       uint8
	Seed    uint32
}

// Session is the marker kept in the unused save words. It identifies a run
// across save states: loading a state restores the marker with it.
type Session struct {
	Seed uint32

	// Resumed is set when an existing marker was found.
	Resumed bool
}

// LoadSession adopts the marker in emulated memory or writes a new one
// holding seed.
func LoadSession(emu emulator.Emulator, seed uint32) Session {
	var marker sessionMarker
	err := emulator.ReadValue(emu, layout.OffsetSaveData, &marker)
	if err == nil && marker.Magic == sessionMagic && marker.Version == sessionVersion {
		return Session{Seed: marker.Seed, Resumed: true}
	}
	marker = sessionMarker{Magic: sessionMagic, Version: sessionVersion, Seed: seed}
	emulator.WriteValue(emu, layout.OffsetSaveData, &marker)
	return Session{Seed: seed}
}

// ClearSaveData zeroes the marker words.
func ClearSaveData(emu emulator.Emulator) {
	emu.Write(layout.OffsetSaveData, make([]byte, layout.SaveDataSize))
}

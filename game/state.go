package game

import (
	"fmt"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/layout"
)

type State int

const (
	StateBootScreen State = iota
	StateMainMenuCold
	StateMainMenuWarm
	StateInGame
)

func (s State) String() string {
	switch s {
	case StateBootScreen:
		return "boot screen"
	case StateMainMenuCold:
		return "main menu"
	case StateMainMenuWarm:
		return "main menu (continue)"
	case StateInGame:
		return "in game"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func stateOf(module layout.Module, title uint8) State {
	switch {
	case module == layout.ModuleNone && title == 0:
		return StateBootScreen
	case title == 1:
		return StateMainMenuCold
	case title == 2:
		return StateMainMenuWarm
	}
	return StateInGame
}

func ReadState(emu emulator.Emulator) State {
	module := layout.Module(emulator.Read[uint8](emu, layout.OffsetModule))
	return stateOf(module, emulator.Read[uint8](emu, layout.OffsetTitleState))
}

// Pending reports which module transitions are still waiting for the game
// to finish loading.
type Pending struct {
	Battle, Field, Shop, World bool
}

func (p Pending) Any() bool {
	return p.Battle || p.Field || p.Shop || p.World
}

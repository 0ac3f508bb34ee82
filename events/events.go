// Package events delivers game notifications to subscribers.
package events

import (
	"fmt"

	"github.com/wnxd/psxhook/layout"
)

type Kind int

const (
	Start Kind = iota
	Frame
	ModuleChanged
	FieldChanged
	BattleEnter
	BattleExit
	ShopOpened
	WorldMapEnter
	EmulatorPaused
	EmulatorResumed

	kindCount
)

var kindNames = [...]string{
	Start:           "start",
	Frame:           "frame",
	ModuleChanged:   "module changed",
	FieldChanged:    "field changed",
	BattleEnter:     "battle enter",
	BattleExit:      "battle exit",
	ShopOpened:      "shop opened",
	WorldMapEnter:   "world map enter",
	EmulatorPaused:  "emulator paused",
	EmulatorResumed: "emulator resumed",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single notification. Only the fields that apply to Kind are set:
// Frame for Frame, Module for ModuleChanged and Field for FieldChanged and
// WorldMapEnter.
type Event struct {
	Kind   Kind
	Frame  uint32
	Module layout.Module
	Field  uint16
}

func (e Event) String() string {
	switch e.Kind {
	case Frame:
		return fmt.Sprintf("%s %d", e.Kind, e.Frame)
	case ModuleChanged:
		return fmt.Sprintf("%s %s", e.Kind, e.Module)
	case FieldChanged, WorldMapEnter:
		return fmt.Sprintf("%s %d", e.Kind, e.Field)
	}
	return e.Kind.String()
}

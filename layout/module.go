package layout

import "fmt"

type Module uint8

const (
	ModuleNone         Module = 0
	ModuleField        Module = 1
	ModuleBattle       Module = 2
	ModuleWorld        Module = 3
	ModuleMenu         Module = 5
	ModuleHighway      Module = 6
	ModuleChocoboRace  Module = 7
	ModuleSnowboarding Module = 8
	ModuleFortCondor   Module = 9
	ModuleSubmarine    Module = 10
	ModuleSpeedSquare  Module = 11
)

var moduleNames = map[Module]string{
	ModuleNone:         "none",
	ModuleField:        "field",
	ModuleBattle:       "battle",
	ModuleWorld:        "world",
	ModuleMenu:         "menu",
	ModuleHighway:      "highway",
	ModuleChocoboRace:  "chocobo race",
	ModuleSnowboarding: "snowboarding",
	ModuleFortCondor:   "fort condor",
	ModuleSubmarine:    "submarine",
	ModuleSpeedSquare:  "speed square",
}

func (m Module) String() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("module(%d)", uint8(m))
}

type MenuType uint8

const MenuShop MenuType = 3

package game

import (
	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/layout"
)

// fade follows a screen fade byte. It completes once the value has reached
// the peak and then dropped, and stays complete until the next snapshot.
type fade struct {
	last   uint8
	peaked bool
	fell   bool
}

func (f *fade) snapshot(v uint8) {
	*f = fade{last: v, peaked: v == layout.FadePeak}
}

func (f *fade) update(v uint8) bool {
	if f.peaked && v < f.last {
		f.fell = true
	}
	if v == layout.FadePeak {
		f.peaked = true
	}
	f.last = v
	return f.fell
}

// battleLoaded checks that the battle copy of every party member matches
// its character record and that the enemy drop table holds at least one empty
// slot marker.
func battleLoaded(emu emulator.Emulator) bool {
	for slot := range uint32(layout.PartySlots) {
		id := emulator.Read[uint8](emu, layout.OffsetPartySlots+slot)
		if id == layout.PartySlotEmpty {
			continue
		}
		record := emulator.Read[uint16](emu, layout.OffsetCharacterRecords+uint32(id)*layout.CharacterRecordSize+layout.CharacterMaxHP)
		battle := emulator.Read[uint16](emu, layout.OffsetBattleParty+slot*layout.BattlePartySize+layout.BattleMaxHP)
		if record != battle {
			return false
		}
	}
	for enemy := range uint32(layout.Enemies) {
		for drop := range uint32(layout.EnemyDropSlots) {
			if emulator.Read[uint16](emu, layout.OffsetEnemyDrops+enemy*layout.EnemyDropStride+drop*2) == layout.EnemyDropEmpty {
				return true
			}
		}
	}
	return false
}

func fieldDataLoaded(emu emulator.Emulator, data layout.FieldData) bool {
	for _, item := range data.Items {
		if emulator.Read[uint16](emu, item.Offset) != item.ID || emulator.Read[uint8](emu, item.Offset+2) != item.Quantity {
			return false
		}
	}
	for _, materia := range data.Materia {
		if emulator.Read[uint8](emu, materia.Offset) != materia.ID {
			return false
		}
	}
	for _, msg := range data.Messages {
		if emulator.Read[uint8](emu, msg.Offset) != layout.OpcodeMessage ||
			emulator.Read[uint8](emu, msg.Offset+1+uint32(msg.Length)) != layout.TextTerminator {
			return false
		}
	}
	for _, exit := range data.Exits {
		if emulator.Read[uint16](emu, exit.Offset) != exit.FieldID {
			return false
		}
	}
	for _, table := range data.Encounters {
		for i, formation := range table.Formations {
			if formation != 0 && emulator.Read[uint16](emu, table.Offset+uint32(i)*2) != formation {
				return false
			}
		}
	}
	return true
}

// fieldLoaded needs the fade to finish even when the field has no table.
func fieldLoaded(emu emulator.Emulator, f *fade, tables *layout.Tables, id uint16) bool {
	faded := f.update(emulator.Read[uint8](emu, layout.OffsetFieldFade))
	if !faded {
		return false
	}
	data, ok := tables.Field(id)
	return !ok || fieldDataLoaded(emu, data)
}

func worldLoaded(emu emulator.Emulator, f *fade, tables *layout.Tables) bool {
	faded := f.update(emulator.Read[uint8](emu, layout.OffsetWorldFade))
	if !faded {
		return false
	}
	if tables == nil {
		return true
	}
	for region, formations := range tables.World {
		base := layout.OffsetWorldEncounters + uint32(region)*layout.WorldEncounterStride
		for i, formation := range formations {
			if emulator.Read[uint16](emu, base+uint32(i)*2) != formation {
				return false
			}
		}
	}
	return true
}

func shopLoaded(emu emulator.Emulator) bool {
	if emulator.Read[uint8](emu, layout.OffsetShopType) >= layout.ShopTypeCount {
		return false
	}
	count := emulator.Read[uint8](emu, layout.OffsetShopCount)
	if count < 1 || count > layout.ShopMaxItems {
		return false
	}
	if emulator.Read[uint16](emu, layout.OffsetShopPadding) != 0 {
		return false
	}
	for i := uint32(count); i < layout.ShopMaxItems; i++ {
		for _, b := range emu.Read(layout.OffsetShopItems+i*layout.ShopItemSize, layout.ShopItemSize) {
			if b != 0 {
				return false
			}
		}
	}
	for _, anchor := range layout.ShopPriceAnchors {
		if emulator.Read[uint32](emu, layout.ShopPriceOffset(anchor.Index)) != anchor.Value {
			return false
		}
	}
	return true
}

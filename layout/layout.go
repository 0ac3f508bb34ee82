// Package layout describes where the game keeps its state in emulated RAM.
// Every offset is relative to the start of the console's 2MB main memory and
// is valid for the NTSC-U release only.
package layout

const RAMSize = 0x200000

// The kernel copies its exception handler to 0x80 at boot. These three words
// are identical across BIOS revisions and identify the start of main RAM.
const (
	SignaturePatternOffset        = 0x80
	SignaturePattern       uint32 = 0x3C1A0000
)

var Signature = [...]struct {
	Offset uint32
	Value  uint32
}{
	{0x80, 0x3C1A0000},
	{0x84, 0x275A0C80},
	{0x88, 0x03400008},
}

// Coarse state.
const (
	OffsetModule     = 0x09C560 // uint8, Module
	OffsetTitleState = 0x09A0D4 // uint8, 0 boot, 1 new game menu, 2 continue menu
	OffsetFrame      = 0x051568 // uint32, incremented once per rendered frame
	OffsetMenuType   = 0x09D2A6 // uint8, MenuType while in the menu module
)

// Field.
const (
	OffsetFieldID     = 0x09A05C // uint16
	OffsetFieldX      = 0x074EB0 // uint16, player position, read once at attach
	OffsetWarpTrigger = 0x09ABF5 // uint8, 1 while a warp is pending
	OffsetWarpTarget  = 0x09A05E // uint16, field id of the pending warp
	OffsetFieldFade   = 0x08E79C // uint8
)

// World map.
const (
	OffsetWorldFade       = 0x0E2D54 // uint8
	OffsetWorldEncounters = 0x0E3A40 // uint16 formation ids
	WorldEncounterStride  = 0x20
	WorldRegions          = 16
)

// FadePeak is the value both fade bytes hold while the screen is fully black.
const FadePeak = 0xFF

// Session marker storage. The game never reads these words.
const (
	OffsetSaveData = 0x09C6E4
	SaveDataWords  = 8
	SaveDataSize   = SaveDataWords * 4
)

// Party and battle.
const (
	OffsetPartySlots = 0x09CBDC // 3 x uint8 character ids
	PartySlots       = 3
	PartySlotEmpty   = 0xFF

	OffsetCharacterRecords = 0x09C738
	CharacterRecordSize    = 0x84
	CharacterMaxHP         = 0x2C // uint16

	OffsetBattleParty = 0x0F83E0
	BattlePartySize   = 0x68
	BattleMaxHP       = 0x2E // uint16

	OffsetEnemyDrops = 0x0F5F44
	Enemies          = 3
	EnemyDropStride  = 0xB8
	EnemyDropSlots   = 4
	EnemyDropEmpty   = 0xFFFF
)

// Shop.
const (
	OffsetShopType    = 0x1D4C0 // uint8
	OffsetShopCount   = 0x1D4C1 // uint8
	OffsetShopPadding = 0x1D4C2 // uint16, always zero once loaded
	OffsetShopItems   = 0x1D4C4
	ShopItemSize      = 8
	ShopMaxItems      = 10
	ShopTypeCount     = 9

	OffsetShopPrices = 0x1D5A0 // uint32 per item id
)

// PriceAnchor is a price table cell whose value never changes.
type PriceAnchor struct {
	Index uint32
	Value uint32
}

// ShopPriceAnchors hold their values only once the full price table has been
// copied in. The first cell keeps its value between shop visits, so it is
// cleared when a shop closes.
var ShopPriceAnchors = [...]PriceAnchor{
	{0x12C, 9000},
	{0x130, 500},
	{0x13E, 12000},
}

const ShopStalePriceValue = 9000

var ShopStalePriceIndex = ShopPriceAnchors[0].Index

func ShopPriceOffset(index uint32) uint32 {
	return OffsetShopPrices + index*4
}

// Field script opcodes checked by the field tables.
const (
	OpcodeMessage  = 0x40
	TextTerminator = 0xFF
)

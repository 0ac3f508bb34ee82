package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type FieldItem struct {
	Offset   uint32 `json:"offset"`
	ID       uint16 `json:"id"`
	Quantity uint8  `json:"quantity"`
}

type FieldMateria struct {
	Offset uint32 `json:"offset"`
	ID     uint8  `json:"id"`
}

// FieldMessage is a message opcode followed by Length bytes of text and a
// terminator.
type FieldMessage struct {
	Offset uint32 `json:"offset"`
	Length uint16 `json:"length"`
}

type FieldExit struct {
	Offset  uint32 `json:"offset"`
	FieldID uint16 `json:"field"`
}

// FieldEncounters is a formation table. Zero entries are not checked.
type FieldEncounters struct {
	Offset     uint32   `json:"offset"`
	Formations []uint16 `json:"formations"`
}

// FieldData is what a field's script is known to contain once it has loaded.
type FieldData struct {
	Items      []FieldItem       `json:"items,omitempty"`
	Materia    []FieldMateria    `json:"materia,omitempty"`
	Messages   []FieldMessage    `json:"messages,omitempty"`
	Exits      []FieldExit       `json:"exits,omitempty"`
	Encounters []FieldEncounters `json:"encounters,omitempty"`
}

// Tables is the static game data the loaded heuristics compare against.
type Tables struct {
	Fields map[uint16]FieldData `json:"fields"`

	// World holds the expected formations of each world map region. Empty
	// regions are skipped.
	World [][]uint16 `json:"world"`
}

func (t *Tables) Field(id uint16) (FieldData, bool) {
	if t == nil {
		return FieldData{}, false
	}
	data, ok := t.Fields[id]
	return data, ok
}

func ReadTables(r io.Reader) (*Tables, error) {
	var t Tables
	err := json.NewDecoder(r).Decode(&t)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}
	if len(t.World) > WorldRegions {
		return nil, fmt.Errorf("tables: %d world regions, at most %d", len(t.World), WorldRegions)
	}
	for i, region := range t.World {
		if len(region) > WorldEncounterStride/2 {
			return nil, fmt.Errorf("tables: world region %d has %d formations", i, len(region))
		}
	}
	for id, field := range t.Fields {
		if err := field.check(); err != nil {
			return nil, fmt.Errorf("tables: field %d: %w", id, err)
		}
	}
	return &t, nil
}

func inRAM(kind string, off uint32, size int) error {
	if uint64(off)+uint64(size) > RAMSize {
		return fmt.Errorf("%s at %#x+%d outside emulated memory", kind, off, size)
	}
	return nil
}

// check rejects entries the heuristics would read past the end of RAM.
func (f FieldData) check() error {
	for _, item := range f.Items {
		if err := inRAM("item", item.Offset, 3); err != nil {
			return err
		}
	}
	for _, materia := range f.Materia {
		if err := inRAM("materia", materia.Offset, 1); err != nil {
			return err
		}
	}
	for _, msg := range f.Messages {
		if err := inRAM("message", msg.Offset, int(msg.Length)+2); err != nil {
			return err
		}
	}
	for _, exit := range f.Exits {
		if err := inRAM("exit", exit.Offset, 2); err != nil {
			return err
		}
	}
	for _, table := range f.Encounters {
		if err := inRAM("encounters", table.Offset, len(table.Formations)*2); err != nil {
			return err
		}
	}
	return nil
}

func LoadTables(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTables(f)
}

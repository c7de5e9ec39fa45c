package net

import (
	"fmt"
	"io"
)

// SlotData is the simplified item-slot codec: count, then item ID with zero
// data components when the slot is non-empty.
type SlotData struct {
	ItemCount int32
	ItemID    int32
}

// IsEmpty reports whether the slot holds no items.
func (s SlotData) IsEmpty() bool {
	return s.ItemCount == 0
}

// WriteSlot writes a slot in the simplified component-less layout.
func WriteSlot(w io.Writer, s SlotData) error {
	if _, err := WriteVarInt(w, s.ItemCount); err != nil {
		return err
	}
	if s.ItemCount == 0 {
		return nil
	}
	if _, err := WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	// Components to add, components to remove.
	if _, err := WriteVarInt(w, 0); err != nil {
		return err
	}
	_, err := WriteVarInt(w, 0)
	return err
}

// ReadSlot reads a slot written by WriteSlot. Slots carrying component data
// are rejected rather than skipped.
func ReadSlot(r io.Reader) (SlotData, error) {
	var s SlotData
	count, _, err := ReadVarInt(r)
	if err != nil {
		return s, err
	}
	s.ItemCount = count
	if count == 0 {
		return s, nil
	}
	if s.ItemID, _, err = ReadVarInt(r); err != nil {
		return s, err
	}
	toAdd, _, err := ReadVarInt(r)
	if err != nil {
		return s, err
	}
	toRemove, _, err := ReadVarInt(r)
	if err != nil {
		return s, err
	}
	if toAdd != 0 || toRemove != 0 {
		return s, fmt.Errorf("%w: slot with component data (%d add, %d remove)", ErrMalformed, toAdd, toRemove)
	}
	return s, nil
}

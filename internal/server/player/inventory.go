package player

import (
	"sync"

	mcnet "github.com/mcpp/server/internal/server/net"
)

// PlayerInventorySize is the slot count of window 0.
const PlayerInventorySize = 46

// Inventory is one window's slot table. Absent slots read as empty.
type Inventory struct {
	mu       sync.Mutex
	WindowID uint8
	Size     int32
	slots    map[int32]mcnet.SlotData
	carried  mcnet.SlotData
	stateID  int32
}

// NewInventory returns the player's own window (ID 0).
func NewInventory() *Inventory {
	return &Inventory{
		Size:  PlayerInventorySize,
		slots: make(map[int32]mcnet.SlotData),
	}
}

// Slot returns the slot contents; empty for unset indices.
func (inv *Inventory) Slot(index int32) mcnet.SlotData {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.slots[index]
}

// SetSlot writes a slot and returns the new state ID.
func (inv *Inventory) SetSlot(index int32, s mcnet.SlotData) int32 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if s.IsEmpty() {
		delete(inv.slots, index)
	} else {
		inv.slots[index] = s
	}
	inv.stateID++
	return inv.stateID
}

// Carried returns the item on the cursor.
func (inv *Inventory) Carried() mcnet.SlotData {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.carried
}

// SetCarried places an item on the cursor and returns the new state ID.
func (inv *Inventory) SetCarried(s mcnet.SlotData) int32 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.carried = s
	inv.stateID++
	return inv.stateID
}

// Snapshot copies the window contents for a Set Container Content.
func (inv *Inventory) Snapshot() (stateID int32, size int32, slots map[int32]mcnet.SlotData, carried mcnet.SlotData) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make(map[int32]mcnet.SlotData, len(inv.slots))
	for i, s := range inv.slots {
		out[i] = s
	}
	return inv.stateID, inv.Size, out, inv.carried
}

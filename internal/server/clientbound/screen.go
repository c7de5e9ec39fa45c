package clientbound

import (
	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// OpenScreen opens a window of the given type.
func OpenScreen(windowID int32, windowType int32, title string) mcnet.Frame {
	var w writer
	w.varInt(windowID)
	w.varInt(windowType)
	w.raw(nbt.Marshal(nbt.TextComponent(title, ""), true))
	return w.frame(packet.OpenScreenID)
}

// ContainerContent mirrors a whole inventory window: declared size worth of
// slots (empty where the map has no entry) plus the carried item.
func ContainerContent(windowID uint8, stateID int32, size int32, slots map[int32]mcnet.SlotData, carried mcnet.SlotData) mcnet.Frame {
	var w writer
	w.u8(windowID)
	w.varInt(stateID)
	w.varInt(size)
	for i := int32(0); i < size; i++ {
		w.slot(slots[i])
	}
	w.slot(carried)
	return w.frame(packet.SetContainerContentID)
}

// ContainerSlot updates a single window slot.
func ContainerSlot(windowID int8, stateID int32, slotID int16, slot mcnet.SlotData) mcnet.Frame {
	var w writer
	w.i8(windowID)
	w.varInt(stateID)
	w.i16(slotID)
	w.slot(slot)
	return w.frame(packet.SetContainerSlotID)
}

// Boss-bar actions.
const (
	BossbarActionAdd          int32 = 0
	BossbarActionRemove       int32 = 1
	BossbarActionUpdateHealth int32 = 2
	BossbarActionUpdateTitle  int32 = 3
	BossbarActionUpdateStyle  int32 = 4
	BossbarActionUpdateFlags  int32 = 5
)

// BossbarData carries the fields the chosen action needs.
type BossbarData struct {
	UUID     uuid.UUID
	Title    *nbt.Compound
	Health   float32
	Color    int32
	Division int32
	Flags    uint8
}

// Bossbar encodes one boss-bar action. Unknown actions return ok=false.
func Bossbar(action int32, d BossbarData) (mcnet.Frame, bool) {
	var w writer
	w.raw(d.UUID[:])
	w.varInt(action)
	switch action {
	case BossbarActionAdd:
		w.raw(nbt.Marshal(d.Title, true))
		w.f32(d.Health)
		w.varInt(d.Color)
		w.varInt(d.Division)
		w.u8(d.Flags)
	case BossbarActionRemove:
	case BossbarActionUpdateHealth:
		w.f32(d.Health)
	case BossbarActionUpdateTitle:
		w.raw(nbt.Marshal(d.Title, true))
	case BossbarActionUpdateStyle:
		w.varInt(d.Color)
		w.varInt(d.Division)
	case BossbarActionUpdateFlags:
		w.u8(d.Flags)
	default:
		return mcnet.Frame{}, false
	}
	return w.frame(packet.BossBarID), true
}

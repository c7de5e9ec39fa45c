package clientbound

import (
	"github.com/google/uuid"

	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// SpawnEntityData is everything Spawn Entity needs from an entity.
type SpawnEntityData struct {
	EntityID       int32
	UUID           uuid.UUID
	Type           int32
	X, Y, Z        float64
	Pitch          float32
	Yaw            float32
	HeadYaw        float32
	AdditionalData []byte
	MotionX        float64
	MotionY        float64
	MotionZ        float64
}

// SpawnEntity announces a new entity with its motion vector.
func SpawnEntity(e SpawnEntityData) mcnet.Frame {
	var w writer
	w.varInt(e.EntityID)
	w.raw(e.UUID[:])
	w.varInt(e.Type)
	w.f64(e.X)
	w.f64(e.Y)
	w.f64(e.Z)
	w.u8(Angle(e.Pitch))
	w.u8(Angle(e.Yaw))
	w.u8(Angle(e.HeadYaw))
	w.varInt(int32(len(e.AdditionalData)))
	w.raw(e.AdditionalData)
	w.i16(VelocityShort(e.MotionX))
	w.i16(VelocityShort(e.MotionY))
	w.i16(VelocityShort(e.MotionZ))
	return w.frame(packet.SpawnEntityID)
}

// RemoveEntities despawns a batch of entities.
func RemoveEntities(entityIDs []int32) mcnet.Frame {
	var w writer
	w.varInt(int32(len(entityIDs)))
	for _, id := range entityIDs {
		w.varInt(id)
	}
	return w.frame(packet.RemoveEntitiesID)
}

// EntityRelativeMove carries pre-scaled (delta * 4096) short deltas.
func EntityRelativeMove(entityID int32, deltaX, deltaY, deltaZ int16, onGround bool) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.i16(deltaX)
	w.i16(deltaY)
	w.i16(deltaZ)
	w.boolean(onGround)
	return w.frame(packet.UpdateEntityPositionID)
}

// EntityLookAndRelativeMove combines scaled deltas with a new look.
func EntityLookAndRelativeMove(entityID int32, deltaX, deltaY, deltaZ int16, yaw, pitch float32, onGround bool) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.i16(deltaX)
	w.i16(deltaY)
	w.i16(deltaZ)
	w.u8(Angle(yaw))
	w.u8(Angle(pitch))
	w.boolean(onGround)
	return w.frame(packet.UpdateEntityPositionAndRotationID)
}

// EntityRotation updates only the look direction.
func EntityRotation(entityID int32, yaw, pitch float32, onGround bool) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.u8(Angle(yaw))
	w.u8(Angle(pitch))
	w.boolean(onGround)
	return w.frame(packet.UpdateEntityRotationID)
}

// HeadRotation updates the head yaw.
func HeadRotation(entityID int32, headYaw float32) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.u8(Angle(headYaw))
	return w.frame(packet.SetHeadRotationID)
}

// TeleportEntity moves an entity absolutely.
func TeleportEntity(entityID int32, x, y, z float64, yaw, pitch float32, onGround bool) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.f64(x)
	w.f64(y)
	w.f64(z)
	w.u8(Angle(yaw))
	w.u8(Angle(pitch))
	w.boolean(onGround)
	return w.frame(packet.TeleportEntityID)
}

// EntityVelocity carries the scaled motion vector.
func EntityVelocity(entityID int32, motionX, motionY, motionZ float64) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.i16(VelocityShort(motionX))
	w.i16(VelocityShort(motionY))
	w.i16(VelocityShort(motionZ))
	return w.frame(packet.SetEntityVelocityID)
}

// MetadataEntry is one typed entity-metadata slot.
type MetadataEntry struct {
	Index uint8
	Type  int32
	Value []byte
}

// EntityMetadata writes typed entries terminated by 0xFF.
func EntityMetadata(entityID int32, entries []MetadataEntry) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	for _, e := range entries {
		w.u8(e.Index)
		w.varInt(e.Type)
		w.raw(e.Value)
	}
	w.u8(0xFF)
	return w.frame(packet.SetEntityMetadataID)
}

// EntityEvent triggers a one-byte entity status.
func EntityEvent(entityID int32, status uint8) mcnet.Frame {
	var w writer
	w.i32(entityID)
	w.u8(status)
	return w.frame(packet.EntityEventID)
}

// EntityAnimation plays a canned animation.
func EntityAnimation(entityID int32, animation uint8) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.u8(animation)
	return w.frame(packet.EntityAnimationID)
}

// PickUpItem animates an entity collecting another.
func PickUpItem(collectedID, collectorID int32, count int32) mcnet.Frame {
	var w writer
	w.varInt(collectedID)
	w.varInt(collectorID)
	w.varInt(count)
	return w.frame(packet.PickUpItemID)
}

// SetEquipment updates one equipment slot.
func SetEquipment(entityID int32, slotID int8, slot mcnet.SlotData) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.i8(slotID)
	w.slot(slot)
	return w.frame(packet.SetEquipmentID)
}

// Attribute is one entry of Update Attributes; modifiers are not carried.
type Attribute struct {
	ID    int32
	Value float64
}

// UpdateAttributes refreshes entity attributes.
func UpdateAttributes(entityID int32, attributes []Attribute) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.varInt(int32(len(attributes)))
	for _, a := range attributes {
		w.varInt(a.ID)
		w.f64(a.Value)
		w.varInt(0)
	}
	return w.frame(packet.UpdateAttributesID)
}

// BlockDestroyStage shows mining progress on a block.
func BlockDestroyStage(entityID int32, x, y, z int, stage int8) mcnet.Frame {
	var w writer
	w.varInt(entityID)
	w.i64(mcnet.EncodePosition(x, y, z))
	w.i8(stage)
	return w.frame(packet.BlockDestroyStageID)
}

// AcknowledgeBlockChange confirms a block-change sequence.
func AcknowledgeBlockChange(sequenceID int32) mcnet.Frame {
	var w writer
	w.varInt(sequenceID)
	return w.frame(packet.AcknowledgeBlockChangeID)
}

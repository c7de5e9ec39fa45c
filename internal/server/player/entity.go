// Package player holds the runtime entity and player state shared between
// the connection handlers and the broadcast fabric.
package player

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
)

// Position is a world position with orientation.
type Position struct {
	X, Y, Z  float64
	Yaw      float32
	Pitch    float32
	HeadYaw  float32
	OnGround bool
}

// Motion is an entity's velocity vector in blocks per tick.
type Motion struct {
	X, Y, Z float64
}

// Entity is any live entity. Players embed it.
type Entity struct {
	mu sync.RWMutex

	EntityID int32
	UUID     uuid.UUID
	Type     int32 // entity_type registry index

	pos    Position
	motion Motion

	// SpawnExtra is the per-type additional data block of Spawn Entity.
	SpawnExtra []byte
}

// NewEntity creates an entity at a position.
func NewEntity(entityID int32, id uuid.UUID, entityType int32, pos Position) *Entity {
	return &Entity{
		EntityID: entityID,
		UUID:     id,
		Type:     entityType,
		pos:      pos,
	}
}

// GetPosition returns a copy of the current position.
func (e *Entity) GetPosition() Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pos
}

// SetPosition replaces position and returns the previous one.
func (e *Entity) SetPosition(pos Position) Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.pos
	e.pos = pos
	return old
}

// UpdateLook replaces only the orientation fields.
func (e *Entity) UpdateLook(yaw, pitch float32, onGround bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos.Yaw = yaw
	e.pos.Pitch = pitch
	e.pos.HeadYaw = yaw
	e.pos.OnGround = onGround
}

// GetMotion returns the current motion vector.
func (e *Entity) GetMotion() Motion {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.motion
}

// SetMotion replaces the motion vector.
func (e *Entity) SetMotion(m Motion) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.motion = m
}

// SpawnData assembles the Spawn Entity fields.
func (e *Entity) SpawnData() clientbound.SpawnEntityData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return clientbound.SpawnEntityData{
		EntityID:       e.EntityID,
		UUID:           e.UUID,
		Type:           e.Type,
		X:              e.pos.X,
		Y:              e.pos.Y,
		Z:              e.pos.Z,
		Pitch:          e.pos.Pitch,
		Yaw:            e.pos.Yaw,
		HeadYaw:        e.pos.HeadYaw,
		AdditionalData: e.SpawnExtra,
		MotionX:        e.motion.X,
		MotionY:        e.motion.Y,
		MotionZ:        e.motion.Z,
	}
}

// DeltaShort scales a coordinate delta for the relative-move packets.
// Deltas beyond the short range must go through Teleport Entity instead.
func DeltaShort(from, to float64) (int16, bool) {
	d := (to - from) * 4096
	if d > math.MaxInt16 || d < math.MinInt16 {
		return 0, false
	}
	return int16(d), true
}

// ChunkCoordinate maps a block-space coordinate to its chunk coordinate.
func ChunkCoordinate(v float64) int32 {
	return int32(math.Floor(v)) >> 4
}

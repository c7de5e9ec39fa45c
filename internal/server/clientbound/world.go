package clientbound

import (
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// BorderSnapshot carries the world-border fields the packets need.
type BorderSnapshot struct {
	CenterX, CenterZ       float64
	Size                   float64
	PortalTeleportBoundary float64
	WarningBlocks          int32
	WarningTime            int32
}

// InitializeWorldBorder sends the full border state with no resize running.
func InitializeWorldBorder(b BorderSnapshot) mcnet.Frame {
	var w writer
	w.f64(b.CenterX)
	w.f64(b.CenterZ)
	w.f64(b.Size)
	w.f64(b.Size)
	w.varLong(0)
	w.varInt(int32(b.PortalTeleportBoundary))
	w.varInt(b.WarningBlocks)
	w.varInt(b.WarningTime)
	return w.frame(packet.InitializeWorldBorderID)
}

// ReInitializeWorldBorder sends the full border state with a resize from
// oldDiameter running at speed.
func ReInitializeWorldBorder(b BorderSnapshot, oldDiameter float64, speed int64) mcnet.Frame {
	var w writer
	w.f64(b.CenterX)
	w.f64(b.CenterZ)
	w.f64(oldDiameter)
	w.f64(b.Size)
	w.varLong(speed)
	w.varInt(int32(b.PortalTeleportBoundary))
	w.varInt(b.WarningBlocks)
	w.varInt(b.WarningTime)
	return w.frame(packet.InitializeWorldBorderID)
}

// SetBorderCenter moves the border center.
func SetBorderCenter(x, z float64) mcnet.Frame {
	var w writer
	w.f64(x)
	w.f64(z)
	return w.frame(packet.SetBorderCenterID)
}

// SetBorderLerpSize starts an interpolated resize.
func SetBorderLerpSize(oldDiameter, newDiameter float64, speed int64) mcnet.Frame {
	var w writer
	w.f64(oldDiameter)
	w.f64(newDiameter)
	w.varLong(speed)
	return w.frame(packet.SetBorderLerpSizeID)
}

// SetBorderSize resizes the border instantly.
func SetBorderSize(diameter float64) mcnet.Frame {
	var w writer
	w.f64(diameter)
	return w.frame(packet.SetBorderSizeID)
}

// SetBorderWarningDelay updates the warning time in seconds.
func SetBorderWarningDelay(warningTime int32) mcnet.Frame {
	var w writer
	w.varInt(warningTime)
	return w.frame(packet.SetBorderWarningDelayID)
}

// SetBorderWarningDistance updates the warning distance in blocks.
func SetBorderWarningDistance(warningBlocks int32) mcnet.Frame {
	var w writer
	w.varInt(warningBlocks)
	return w.frame(packet.SetBorderWarningDistanceID)
}

// UpdateTime reports world age and time of day.
func UpdateTime(worldAge, timeOfDay int64) mcnet.Frame {
	var w writer
	w.i64(worldAge)
	w.i64(timeOfDay)
	return w.frame(packet.UpdateTimeID)
}

// GameEvent signals a one-byte game state change with a float argument.
func GameEvent(event uint8, value float32) mcnet.Frame {
	var w writer
	w.u8(event)
	w.f32(value)
	return w.frame(packet.GameEventID)
}

// worldEventsWithoutRelativeVolume are the event IDs that force the
// "disable relative volume" flag on.
var worldEventsWithoutRelativeVolume = map[int32]bool{
	1023: true, // wither spawn
	1028: true, // ender dragon death
	1038: true, // end portal opened
}

// WorldEvent plays a world effect at a block position.
func WorldEvent(event int32, x, y, z int, data int32) mcnet.Frame {
	var w writer
	w.i32(event)
	w.i64(mcnet.EncodePosition(x, y, z))
	w.i32(data)
	w.boolean(worldEventsWithoutRelativeVolume[event])
	return w.frame(packet.WorldEventID)
}

// SetCenterChunk re-centers the client's loaded-chunk window.
func SetCenterChunk(chunkX, chunkZ int32) mcnet.Frame {
	var w writer
	w.varInt(chunkX)
	w.varInt(chunkZ)
	return w.frame(packet.SetCenterChunkID)
}

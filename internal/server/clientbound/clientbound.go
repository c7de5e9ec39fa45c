// Package clientbound builds the payloads of every clientbound packet the
// core emits. Builders are pure: they return a net.Frame and never touch
// sockets or shared state. The frame layer owns the packet-ID encoding.
package clientbound

import (
	"bytes"
	"math"

	mcnet "github.com/mcpp/server/internal/server/net"
)

// Angle converts degrees to a protocol angle byte: round(deg*256/360) mod 256.
func Angle(degrees float32) uint8 {
	return uint8(int(math.Round(float64(degrees)*256.0/360.0)) & 0xFF)
}

// AngleToDegrees is the inverse of Angle up to its quantization step.
func AngleToDegrees(angle uint8) float32 {
	return float32(angle) * 360.0 / 256.0
}

// VelocityShort scales a motion component by 8000, clamped to int16 range.
func VelocityShort(component float64) int16 {
	v := component * 8000
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// writer accumulates a payload. All byte-buffer writes are infallible so
// builders stay expression-shaped.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) varInt(v int32) { mcnet.WriteVarInt(&w.buf, v) }
func (w *writer) varLong(v int64) { mcnet.WriteVarLong(&w.buf, v) }
func (w *writer) u8(v uint8) { w.buf.WriteByte(v) }
func (w *writer) i8(v int8) { w.buf.WriteByte(byte(v)) }
func (w *writer) i16(v int16) { mcnet.WriteI16(&w.buf, v) }
func (w *writer) i32(v int32) { mcnet.WriteI32(&w.buf, v) }
func (w *writer) i64(v int64) { mcnet.WriteI64(&w.buf, v) }
func (w *writer) f32(v float32) { mcnet.WriteF32(&w.buf, v) }
func (w *writer) f64(v float64) { mcnet.WriteF64(&w.buf, v) }
func (w *writer) boolean(v bool) { mcnet.WriteBool(&w.buf, v) }
func (w *writer) str(s string) { mcnet.WriteString(&w.buf, s) }
func (w *writer) raw(data []byte) { w.buf.Write(data) }
func (w *writer) slot(s mcnet.SlotData) { mcnet.WriteSlot(&w.buf, s) }

func (w *writer) frame(id int32) mcnet.Frame {
	return mcnet.Frame{ID: id, Payload: w.buf.Bytes()}
}

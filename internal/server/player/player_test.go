package player

import (
	"testing"

	"github.com/google/uuid"

	mcnet "github.com/mcpp/server/internal/server/net"
)

type recordingSink struct {
	frames []mcnet.Frame
	closed bool
}

func (s *recordingSink) Send(f mcnet.Frame) bool {
	if s.closed {
		return false
	}
	s.frames = append(s.frames, f)
	return true
}

func TestPlayerSendWithoutConn(t *testing.T) {
	p := New(1, uuid.New(), "A", Position{X: 0.5, Y: 64, Z: 0.5})
	if p.Send(mcnet.Frame{ID: 1}) {
		t.Error("Send succeeded with no connection attached")
	}

	sink := &recordingSink{}
	p.SetConn(sink)
	if !p.Send(mcnet.Frame{ID: 1}) {
		t.Error("Send failed with connection attached")
	}

	p.SetConn(nil)
	if p.Send(mcnet.Frame{ID: 2}) {
		t.Error("Send succeeded after the connection was detached")
	}
	if len(sink.frames) != 1 {
		t.Errorf("sink saw %d frames, want 1", len(sink.frames))
	}
}

func TestDeltaShort(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     int16
		ok       bool
	}{
		{"zero", 5.0, 5.0, 0, true},
		{"one_block", 0.0, 1.0, 4096, true},
		{"negative", 1.0, 0.5, -2048, true},
		{"too_far", 0.0, 10.0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeltaShort(tt.from, tt.to)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DeltaShort(%v, %v) = %d, %v, want %d, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestChunkCoordinate(t *testing.T) {
	tests := []struct {
		v    float64
		want int32
	}{
		{0.5, 0},
		{15.9, 0},
		{16.0, 1},
		{-0.5, -1},
		{-16.5, -2},
	}
	for _, tt := range tests {
		if got := ChunkCoordinate(tt.v); got != tt.want {
			t.Errorf("ChunkCoordinate(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestEntityPositionRoundTrip(t *testing.T) {
	e := NewEntity(7, uuid.New(), 10, Position{X: 1, Y: 2, Z: 3, Yaw: 90})
	old := e.SetPosition(Position{X: 4, Y: 5, Z: 6})
	if old.X != 1 || old.Yaw != 90 {
		t.Errorf("old position = %+v", old)
	}
	if got := e.GetPosition(); got.X != 4 || got.Z != 6 {
		t.Errorf("new position = %+v", got)
	}
}

func TestSpawnDataCarriesMotion(t *testing.T) {
	e := NewEntity(9, uuid.New(), 55, Position{X: 1, Y: 2, Z: 3})
	e.SetMotion(Motion{X: 0.5, Y: -0.25, Z: 0})

	d := e.SpawnData()
	if d.EntityID != 9 || d.Type != 55 {
		t.Errorf("spawn data = %+v", d)
	}
	if d.MotionX != 0.5 || d.MotionY != -0.25 {
		t.Errorf("motion = (%v, %v, %v)", d.MotionX, d.MotionY, d.MotionZ)
	}
}

func TestInventoryStateIDs(t *testing.T) {
	inv := NewInventory()
	s1 := inv.SetSlot(36, mcnet.SlotData{ItemCount: 1, ItemID: 5})
	s2 := inv.SetCarried(mcnet.SlotData{ItemCount: 2, ItemID: 7})
	if s2 != s1+1 {
		t.Errorf("state IDs = %d, %d, want monotonic", s1, s2)
	}

	if inv.Slot(36).ItemID != 5 {
		t.Error("slot not stored")
	}
	inv.SetSlot(36, mcnet.SlotData{})
	if !inv.Slot(36).IsEmpty() {
		t.Error("clearing a slot did not empty it")
	}

	_, size, slots, carried := inv.Snapshot()
	if size != PlayerInventorySize {
		t.Errorf("size = %d", size)
	}
	if len(slots) != 0 {
		t.Errorf("snapshot slots = %v", slots)
	}
	if carried.ItemID != 7 {
		t.Errorf("carried = %+v", carried)
	}
}

func TestInfoEntry(t *testing.T) {
	p := New(1, uuid.New(), "Notch", Position{})
	p.SetGameMode(1)
	p.SetPing(33)

	e := p.InfoEntry()
	if e.Name != "Notch" || e.GameMode != 1 || e.Ping != 33 || !e.Listed {
		t.Errorf("info entry = %+v", e)
	}
}

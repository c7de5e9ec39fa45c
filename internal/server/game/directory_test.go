package game

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/gamedata"
	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
	"github.com/mcpp/server/internal/server/player"
	"github.com/mcpp/server/internal/server/registry"
	"github.com/mcpp/server/internal/server/world"
)

type fakeClient struct {
	id     uuid.UUID
	mu     sync.Mutex
	frames []mcnet.Frame
}

func (f *fakeClient) ClientUUID() uuid.UUID { return f.id }

func (f *fakeClient) Send(frame mcnet.Frame) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeClient) Disconnect(string) {}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func newTestDirectory() *Directory {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDirectory(config.DefaultConfig(), log, gamedata.Load("/nonexistent", log), nil, nil)
}

func TestBroadcastExcludesNamedClient(t *testing.T) {
	d := newTestDirectory()
	a := &fakeClient{id: uuid.New()}
	b := &fakeClient{id: uuid.New()}
	d.AddClient(a)
	d.AddClient(b)

	d.BroadcastAll(mcnet.Frame{ID: 1})
	d.BroadcastExcept(mcnet.Frame{ID: 2}, a.id)

	if a.count() != 1 {
		t.Errorf("excluded client saw %d frames, want 1", a.count())
	}
	if b.count() != 2 {
		t.Errorf("other client saw %d frames, want 2", b.count())
	}

	d.RemoveClient(b.id)
	d.BroadcastAll(mcnet.Frame{ID: 3})
	if b.count() != 2 {
		t.Error("removed client still receives broadcasts")
	}
}

func TestAddPlayerInvariants(t *testing.T) {
	d := newTestDirectory()
	id := uuid.New()

	p1 := player.New(d.AllocateEntityID(), id, "A", player.Position{})
	if err := d.AddPlayer(p1); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}

	dup := player.New(d.AllocateEntityID(), id, "B", player.Position{})
	if err := d.AddPlayer(dup); err == nil {
		t.Error("duplicate UUID accepted")
	}

	sameEntity := player.New(p1.EntityID, uuid.New(), "C", player.Position{})
	if err := d.AddPlayer(sameEntity); err == nil {
		t.Error("duplicate entity ID accepted")
	}
	// The failed add must not leave a phantom player behind.
	if d.PlayerByUUID(sameEntity.UUID) != nil {
		t.Error("failed AddPlayer left the player registered")
	}

	if got := d.RemovePlayer(id); got != p1 {
		t.Error("RemovePlayer returned wrong player")
	}
	if d.EntityByID(p1.EntityID) != nil {
		t.Error("RemovePlayer left the entity registered")
	}
}

func TestEntityRegistry(t *testing.T) {
	d := newTestDirectory()
	e := player.NewEntity(d.AllocateEntityID(), uuid.New(), 10, player.Position{})

	if err := d.RegisterEntity(e); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	if err := d.RegisterEntity(e); err == nil {
		t.Error("duplicate entity registration accepted")
	}
	if d.EntityByID(e.EntityID) != e {
		t.Error("EntityByID lookup failed")
	}

	d.UnregisterEntity(e.EntityID)
	if d.EntityByID(e.EntityID) != nil {
		t.Error("entity still registered after removal")
	}
}

func TestTeleportIDsMonotonic(t *testing.T) {
	d := newTestDirectory()
	prev := d.NextTeleportID()
	for range 100 {
		next := d.NextTeleportID()
		if next <= prev {
			t.Fatalf("teleport IDs not monotonic: %d after %d", next, prev)
		}
		prev = next
	}
}

func TestPlayerChatUsesRegistryIndex(t *testing.T) {
	d := newTestDirectory()
	d.Registries.Add(registry.RegistryChatType, "minecraft:chat")

	c := &fakeClient{id: uuid.New()}
	d.AddClient(c)

	sender := player.New(d.AllocateEntityID(), uuid.New(), "A", player.Position{})
	d.PlayerChat(sender, "hi", 1, 2, nil, "minecraft:chat", "")

	if c.count() != 1 {
		t.Fatalf("chat fan-out sent %d frames, want 1", c.count())
	}
	frame := c.frames[0]
	if frame.ID != packet.PlayerChatMessageID {
		t.Fatalf("frame ID = 0x%02X", frame.ID)
	}

	// Unknown chat type aborts without emitting.
	d.PlayerChat(sender, "hi", 1, 2, nil, "minecraft:missing", "")
	if c.count() != 1 {
		t.Error("unknown chat type still emitted a frame")
	}
}

func TestSystemChatTargeted(t *testing.T) {
	d := newTestDirectory()
	c := &fakeClient{id: uuid.New()}
	d.AddClient(c)

	connected := player.New(d.AllocateEntityID(), uuid.New(), "A", player.Position{})
	connected.SetConn(c)
	detached := player.New(d.AllocateEntityID(), uuid.New(), "B", player.Position{})

	d.SystemChat("hello", "white", false, []*player.Player{connected, detached, nil})
	if c.count() != 1 {
		t.Errorf("targeted chat sent %d frames, want 1", c.count())
	}

	payload := c.frames[0].Payload
	if !bytes.Contains(payload, []byte("hello")) {
		t.Error("payload does not carry the message text")
	}
}

func TestSendBossbarTargetsSubscribers(t *testing.T) {
	d := newTestDirectory()
	c := &fakeClient{id: uuid.New()}
	d.AddClient(c)

	subscribed := player.New(d.AllocateEntityID(), uuid.New(), "A", player.Position{})
	subscribed.SetConn(c)
	if err := d.AddPlayer(subscribed); err != nil {
		t.Fatal(err)
	}
	bystander := player.New(d.AllocateEntityID(), uuid.New(), "B", player.Position{})
	if err := d.AddPlayer(bystander); err != nil {
		t.Fatal(err)
	}

	bar := world.NewBossbar(nbt.TextComponent("Raid", "red"), 4, 0)
	bar.AddPlayer(subscribed.UUID)

	d.SendBossbar(bar, bar.Add())
	if c.count() != 1 {
		t.Errorf("subscriber saw %d frames, want 1", c.count())
	}

	bar.RemovePlayer(subscribed.UUID)
	d.SendBossbar(bar, bar.SetHealth(0.5))
	if c.count() != 1 {
		t.Error("unsubscribed player still receives bossbar frames")
	}
}

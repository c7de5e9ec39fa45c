package conn

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/game"
	"github.com/mcpp/server/internal/server/gamedata"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
	"github.com/mcpp/server/internal/server/player"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestConnection wires a Connection over a pipe whose far end is
// drained, so synchronous writes never block.
func newTestConnection(t *testing.T) (*Connection, *game.Directory) {
	t.Helper()

	log := discardLogger()
	cfg := config.DefaultConfig()
	dir := game.NewDirectory(cfg, log, gamedata.Load(t.TempDir(), log), nil, nil)

	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	go io.Copy(io.Discard, client)

	c := NewConnection(context.Background(), server, cfg, log, dir)
	return c, dir
}

func marshal(t *testing.T, p mcnet.Packet) []byte {
	t.Helper()
	data, err := mcnet.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandshakeTransitions(t *testing.T) {
	tests := []struct {
		name      string
		nextState int32
		want      State
	}{
		{"status", 1, StateStatus},
		{"login", 2, StateLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConnection(t)
			data := marshal(t, &packet.Handshake{
				ProtocolVersion: packet.ProtocolVersion,
				ServerAddress:   "localhost",
				ServerPort:      25565,
				NextState:       tt.nextState,
			})
			if err := c.handleHandshake(0x00, data); err != nil {
				t.Fatalf("handleHandshake: %v", err)
			}
			if c.State() != tt.want {
				t.Errorf("state = %v, want %v", c.State(), tt.want)
			}
		})
	}
}

func TestHandshakeInvalidNextState(t *testing.T) {
	c, _ := newTestConnection(t)
	data := marshal(t, &packet.Handshake{ProtocolVersion: 767, NextState: 9})
	err := c.handleHandshake(0x00, data)
	if !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("error = %v, want ErrProtocolViolation", err)
	}
}

func TestWrongPhasePacketIsViolation(t *testing.T) {
	c, _ := newTestConnection(t)
	c.setState(StateStatus)

	err := c.dispatch(0x05, nil)
	if !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("error = %v, want ErrProtocolViolation", err)
	}
}

// attachPlayer puts a connection straight into Play with a registered
// player, bypassing the login handshake.
func attachPlayer(t *testing.T, c *Connection, dir *game.Directory, name string) *player.Player {
	t.Helper()
	id := uuid.New()
	c.loginUUID = id
	p := player.New(dir.AllocateEntityID(), id, name, player.Position{X: 0.5, Y: 64, Z: 0.5, OnGround: true})
	p.SetConn(c)
	if err := dir.AddPlayer(p); err != nil {
		t.Fatal(err)
	}
	c.self = p
	c.setState(StatePlay)
	return p
}

func TestTeleportFlow(t *testing.T) {
	c, dir := newTestConnection(t)
	attachPlayer(t, c, dir, "A")

	c.synchronizePosition()

	if c.State() != StateAwaitingTeleportConfirm {
		t.Fatalf("state = %v, want AwaitingTeleportConfirm", c.State())
	}
	if c.pendingTeleportCount() != 1 {
		t.Fatalf("pending teleports = %d, want 1", c.pendingTeleportCount())
	}

	var issued int32
	c.mu.Lock()
	for id := range c.pendingTeleports {
		issued = id
	}
	c.mu.Unlock()

	// Confirming the issued ID empties the set and restores Play.
	data := marshal(t, &packet.ConfirmTeleportation{TeleportID: issued})
	if err := c.handleConfirmTeleportation(data); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if c.pendingTeleportCount() != 0 {
		t.Error("pending set not emptied")
	}
	if c.State() != StatePlay {
		t.Errorf("state = %v, want Play", c.State())
	}

	// Confirming an unknown ID is a protocol violation.
	data = marshal(t, &packet.ConfirmTeleportation{TeleportID: issued + 1})
	err := c.handleConfirmTeleportation(data)
	if !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("error = %v, want ErrProtocolViolation", err)
	}
}

func TestMovementGatedDuringTeleport(t *testing.T) {
	c, dir := newTestConnection(t)
	p := attachPlayer(t, c, dir, "A")
	c.synchronizePosition()

	before := p.GetPosition()

	// A move far outside the epsilon band is dropped.
	if err := c.handleMovement(100, 80, 100, 0, 0, true, false, true); err != nil {
		t.Fatal(err)
	}
	if got := p.GetPosition(); got != before {
		t.Errorf("gated move mutated position: %+v", got)
	}

	// A move within epsilon is accepted.
	if err := c.handleMovement(before.X+0.01, before.Y, before.Z, 0, 0, true, false, true); err != nil {
		t.Fatal(err)
	}
	if got := p.GetPosition(); got.X == before.X {
		t.Error("epsilon move was dropped")
	}
}

func TestMovementUpdatesCenterChunk(t *testing.T) {
	c, dir := newTestConnection(t)
	p := attachPlayer(t, c, dir, "A")

	if err := c.handleMovement(40, 64, -40, 0, 0, true, false, true); err != nil {
		t.Fatal(err)
	}
	cx, cz := p.CurrentChunk()
	if cx != 2 || cz != -3 {
		t.Errorf("center chunk = (%d, %d), want (2, -3)", cx, cz)
	}
}

func TestNoSendAfterClose(t *testing.T) {
	c, _ := newTestConnection(t)
	c.close()

	if c.State() != StateClosed {
		t.Fatalf("state = %v, want Closed", c.State())
	}
	if c.Send(mcnet.Frame{ID: 0x01}) {
		t.Error("Send succeeded on a closed connection")
	}
}

func TestKeepAliveMismatchCloses(t *testing.T) {
	c, dir := newTestConnection(t)
	attachPlayer(t, c, dir, "A")

	c.mu.Lock()
	c.lastKeepAliveID = 1111
	c.keepAliveAcked = false
	c.mu.Unlock()

	data := marshal(t, &packet.KeepAliveServerbound{KeepAliveID: 2222})
	if err := c.handleKeepAlive(data); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateClosed {
		t.Error("mismatched keep-alive did not close the connection")
	}
}

func TestHeldSlotOutOfRange(t *testing.T) {
	c, dir := newTestConnection(t)
	attachPlayer(t, c, dir, "A")

	data := marshal(t, &packet.SetHeldItemServerbound{Slot: 9})
	err := c.handlePlay(packet.SetHeldItemSBID, data)
	if !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("error = %v, want ErrProtocolViolation", err)
	}
}

func TestUnknownPlayPacketTolerated(t *testing.T) {
	c, dir := newTestConnection(t)
	attachPlayer(t, c, dir, "A")

	// Inside the play ID table but unhandled: ignored.
	if err := c.handlePlay(0x21, nil); err != nil {
		t.Errorf("in-table packet rejected: %v", err)
	}
	// Outside the table entirely: violation.
	err := c.handlePlay(0x7F, nil)
	if !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("error = %v, want ErrProtocolViolation", err)
	}
}

func TestPlayerSessionSizeLimits(t *testing.T) {
	c, dir := newTestConnection(t)
	attachPlayer(t, c, dir, "A")
	c.cfg.EnableSecureChat = true

	build := func(pubKeyLen, sigLen int) []byte {
		var buf bytes.Buffer
		buf.Write(make([]byte, 16))
		mcnet.WriteI64(&buf, 99)
		mcnet.WriteByteArray(&buf, make([]byte, pubKeyLen))
		mcnet.WriteByteArray(&buf, make([]byte, sigLen))
		return buf.Bytes()
	}

	if err := c.handlePlayerSession(build(256, 512)); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	if c.self.Session() == nil {
		t.Fatal("session not stored")
	}

	if err := c.handlePlayerSession(build(513, 512)); !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("oversized public key error = %v", err)
	}
	if err := c.handlePlayerSession(build(256, 4097)); !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("oversized signature error = %v", err)
	}
}

func TestOfflineUUID(t *testing.T) {
	a := offlineUUID("Notch")
	b := offlineUUID("Notch")
	other := offlineUUID("jeb_")

	if a != b {
		t.Error("offline UUID not deterministic")
	}
	if a == other {
		t.Error("different names map to the same UUID")
	}
	if v := a.Version(); v != 3 {
		t.Errorf("UUID version = %d, want 3", v)
	}
	if v := a.Variant(); v != uuid.RFC4122 {
		t.Errorf("UUID variant = %v, want RFC4122", v)
	}
}

func TestMinecraftSHA1HexDigest(t *testing.T) {
	// Reference vectors: username as serverID, empty secret and key.
	tests := []struct {
		name string
		want string
	}{
		{"Notch", "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48"},
		{"jeb_", "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1"},
		{"simon", "88e16a1019277b15d58faf0541e11910eb756f6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := minecraftSHA1HexDigest(tt.name, nil, nil); got != tt.want {
				t.Errorf("digest(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestCFB8RoundTrip(t *testing.T) {
	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	plaintext := []byte("a stream long enough to cross several 16-byte blocks")

	encBlock, _ := aes.NewCipher(key)
	enc := newCFB8(encBlock, key, true)
	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)

	if bytes.Equal(ciphertext, plaintext) {
		t.Error("ciphertext equals plaintext")
	}

	decBlock, _ := aes.NewCipher(key)
	dec := newCFB8(decBlock, key, false)
	recovered := make([]byte, len(ciphertext))
	dec.XORKeyStream(recovered, ciphertext)

	if !bytes.Equal(recovered, plaintext) {
		t.Errorf("round trip failed\ngot:  %x\nwant: %x", recovered, plaintext)
	}
}

func TestCFB8ByteAtATime(t *testing.T) {
	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	plaintext := []byte("byte-at-a-time equivalence")

	b1, _ := aes.NewCipher(key)
	whole := newCFB8(b1, key, true)
	batch := make([]byte, len(plaintext))
	whole.XORKeyStream(batch, plaintext)

	b2, _ := aes.NewCipher(key)
	single := newCFB8(b2, key, true)
	byByte := make([]byte, len(plaintext))
	for i := range plaintext {
		single.XORKeyStream(byByte[i:i+1], plaintext[i:i+1])
	}

	if !bytes.Equal(batch, byByte) {
		t.Errorf("byte-at-a-time differs\nbatch: %x\nbytes: %x", batch, byByte)
	}
}

package player

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
)

// PacketSink is the connection-facing side of a player: a place to push
// pre-built frames. It reports false once the connection is closed.
type PacketSink interface {
	Send(frame mcnet.Frame) bool
}

// Player is a connected (or connecting) player. It embeds Entity for the
// shared spatial state and guards its own fields with a separate mutex.
//
// The player holds only a weak-style reference to its connection: the
// connection owns the player and clears the sink on close, so late sends
// fall out harmlessly instead of keeping the connection alive.
type Player struct {
	Entity

	UUIDString string
	Name       string

	pmu           sync.RWMutex
	conn          PacketSink
	gameMode      uint8
	ping          int32
	listed        bool
	lang          string
	properties    []clientbound.InfoProperty
	session       *clientbound.ChatSession
	newSpawn      bool
	heldSlot      int16
	currentChunkX int32
	currentChunkZ int32
	Inventory     *Inventory
}

// New creates a player at the given spawn position.
func New(entityID int32, id uuid.UUID, name string, pos Position) *Player {
	p := &Player{
		Entity:     Entity{EntityID: entityID, UUID: id, Type: EntityTypePlayer, pos: pos},
		UUIDString: id.String(),
		Name:       name,
		listed:     true,
		lang:       "en_us",
		newSpawn:   true,
		Inventory:  NewInventory(),
	}
	p.currentChunkX = ChunkCoordinate(pos.X)
	p.currentChunkZ = ChunkCoordinate(pos.Z)
	return p
}

// EntityTypePlayer is the minecraft:player index in the entity_type registry.
const EntityTypePlayer = 128

// SetConn installs or clears the connection sink.
func (p *Player) SetConn(sink PacketSink) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.conn = sink
}

// Send pushes a frame to the player's connection. It reports false when the
// player has no live connection.
func (p *Player) Send(frame mcnet.Frame) bool {
	p.pmu.RLock()
	sink := p.conn
	p.pmu.RUnlock()
	if sink == nil {
		return false
	}
	return sink.Send(frame)
}

// Connected reports whether a live connection is attached.
func (p *Player) Connected() bool {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.conn != nil
}

// GameMode returns the current game mode.
func (p *Player) GameMode() uint8 {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.gameMode
}

// SetGameMode sets the game mode.
func (p *Player) SetGameMode(mode uint8) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.gameMode = mode
}

// Ping returns the last measured latency in milliseconds.
func (p *Player) Ping() int32 {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.ping
}

// SetPing records a latency measurement.
func (p *Player) SetPing(ms int32) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.ping = ms
}

// Listed reports whether the player appears in the tab list.
func (p *Player) Listed() bool {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.listed
}

// SetListed toggles tab-list visibility.
func (p *Player) SetListed(listed bool) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.listed = listed
}

// Lang returns the client's language tag.
func (p *Player) Lang() string {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.lang
}

// SetLang records the language tag from client information.
func (p *Player) SetLang(lang string) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.lang = lang
}

// Properties returns the profile property list.
func (p *Player) Properties() []clientbound.InfoProperty {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.properties
}

// SetProperties installs the profile property list.
func (p *Player) SetProperties(props []clientbound.InfoProperty) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.properties = props
}

// Session returns the chat signing session, nil when absent.
func (p *Player) Session() *clientbound.ChatSession {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.session
}

// SetSession installs the chat signing session.
func (p *Player) SetSession(s *clientbound.ChatSession) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.session = s
}

// NewSpawn reports whether the player has never been positioned.
func (p *Player) NewSpawn() bool {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.newSpawn
}

// ClearNewSpawn marks the player as positioned.
func (p *Player) ClearNewSpawn() {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.newSpawn = false
}

// HeldSlot returns the selected hotbar slot.
func (p *Player) HeldSlot() int16 {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.heldSlot
}

// SetHeldSlot selects a hotbar slot.
func (p *Player) SetHeldSlot(slot int16) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.heldSlot = slot
}

// CurrentChunk returns the chunk the player was last synchronized into.
func (p *Player) CurrentChunk() (x, z int32) {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return p.currentChunkX, p.currentChunkZ
}

// SetCurrentChunk records the synchronized chunk.
func (p *Player) SetCurrentChunk(x, z int32) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.currentChunkX = x
	p.currentChunkZ = z
}

// InfoEntry assembles this player's slice of a Player Info Update.
func (p *Player) InfoEntry() clientbound.InfoEntry {
	p.pmu.RLock()
	defer p.pmu.RUnlock()
	return clientbound.InfoEntry{
		UUID:       p.UUID,
		Name:       p.Name,
		Properties: p.properties,
		Session:    p.session,
		GameMode:   int32(p.gameMode),
		Listed:     p.listed,
		Ping:       p.ping,
	}
}

// Package game owns the shared world directory: the connected-clients
// table, the player and entity registries, world border and clock, and the
// broadcast fabric that fans frames out to clients.
package game

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/commands"
	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/gamedata"
	"github.com/mcpp/server/internal/server/metrics"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/player"
	"github.com/mcpp/server/internal/server/registry"
	"github.com/mcpp/server/internal/server/world"
)

// Client is the directory's view of a connection: an address to push frames
// to and a way to force a protocol-violation disconnect.
type Client interface {
	ClientUUID() uuid.UUID
	Send(frame mcnet.Frame) bool
	Disconnect(reason string)
}

// Directory is the dependency-injected server context passed to every
// handler. All tables guard themselves; see the lock-order note below.
//
// Lock order: clientsMu → (a single client's internals) → border/clock.
// The clients table lock is never held across socket I/O; broadcasts
// snapshot the table first and push to per-client queues afterwards.
type Directory struct {
	Log     *slog.Logger
	Cfg     *config.Config
	Metrics *metrics.Metrics

	Border     *world.Border
	Clock      *world.Clock
	Registries *registry.Manager
	Data       *gamedata.Store
	Registry   *registry.File // nil when registry_data.json failed to load
	Commands   *commands.Graph

	graphNumNodes int32
	graphNodes    []byte
	graphRoot     int32

	clientsMu sync.Mutex
	clients   map[uuid.UUID]Client

	playersMu sync.RWMutex
	players   map[uuid.UUID]*player.Player

	entitiesMu sync.RWMutex
	entities   map[int32]*player.Entity

	nextEntityID   atomic.Int32
	nextTeleportID atomic.Int32
}

// NewDirectory assembles the shared context. The command graph is
// serialized once here and reused for every Commands packet.
func NewDirectory(cfg *config.Config, log *slog.Logger, data *gamedata.Store, regFile *registry.File, m *metrics.Metrics) *Directory {
	d := &Directory{
		Log:        log,
		Cfg:        cfg,
		Metrics:    m,
		Border:     world.NewBorder(),
		Clock:      world.NewClock(),
		Registries: registry.NewManager(),
		Data:       data,
		Registry:   regFile,
		Commands:   commands.Default(),
		clients:    make(map[uuid.UUID]Client),
		players:    make(map[uuid.UUID]*player.Player),
		entities:   make(map[int32]*player.Entity),
	}
	d.graphNumNodes, d.graphNodes, d.graphRoot = d.Commands.Serialize()
	return d
}

// AllocateEntityID returns the next unique entity ID.
func (d *Directory) AllocateEntityID() int32 {
	return d.nextEntityID.Add(1)
}

// NextTeleportID returns the next monotonically increasing teleport ID.
func (d *Directory) NextTeleportID() int32 {
	return d.nextTeleportID.Add(1)
}

// CommandGraph returns the pre-serialized command graph.
func (d *Directory) CommandGraph() (numNodes int32, nodes []byte, rootIndex int32) {
	return d.graphNumNodes, d.graphNodes, d.graphRoot
}

// AddClient registers a connection in the clients table.
func (d *Directory) AddClient(c Client) {
	d.clientsMu.Lock()
	d.clients[c.ClientUUID()] = c
	n := len(d.clients)
	d.clientsMu.Unlock()

	if d.Metrics != nil {
		d.Metrics.ConnectedClients.Set(float64(n))
	}
}

// RemoveClient drops a connection from the clients table.
func (d *Directory) RemoveClient(id uuid.UUID) {
	d.clientsMu.Lock()
	delete(d.clients, id)
	n := len(d.clients)
	d.clientsMu.Unlock()

	if d.Metrics != nil {
		d.Metrics.ConnectedClients.Set(float64(n))
	}
}

// ClientCount returns the number of connected sockets.
func (d *Directory) ClientCount() int {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	return len(d.clients)
}

// snapshotClients copies the client references so no send happens under
// the table lock.
func (d *Directory) snapshotClients() []Client {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	out := make([]Client, 0, len(d.clients))
	for _, c := range d.clients {
		out = append(out, c)
	}
	return out
}

// BroadcastAll pushes a frame to every connected client.
func (d *Directory) BroadcastAll(frame mcnet.Frame) {
	for _, c := range d.snapshotClients() {
		c.Send(frame)
	}
}

// BroadcastExcept pushes a frame to every client but the named one.
func (d *Directory) BroadcastExcept(frame mcnet.Frame, exclude uuid.UUID) {
	for _, c := range d.snapshotClients() {
		if c.ClientUUID() != exclude {
			c.Send(frame)
		}
	}
}

// SendToPlayers pushes a frame to a caller-provided player subset,
// skipping players with no live connection.
func (d *Directory) SendToPlayers(frame mcnet.Frame, targets []*player.Player) {
	for _, p := range targets {
		if p == nil {
			continue
		}
		p.Send(frame)
	}
}

// AddPlayer installs a player into the global table when their connection
// reaches the Play phase. Duplicate UUIDs or entity IDs are internal
// invariant violations: the operation is dropped, not fatal.
func (d *Directory) AddPlayer(p *player.Player) error {
	d.playersMu.Lock()
	if _, exists := d.players[p.UUID]; exists {
		d.playersMu.Unlock()
		return fmt.Errorf("duplicate player UUID %s", p.UUIDString)
	}
	d.players[p.UUID] = p
	d.playersMu.Unlock()

	if err := d.RegisterEntity(&p.Entity); err != nil {
		d.playersMu.Lock()
		delete(d.players, p.UUID)
		d.playersMu.Unlock()
		return err
	}

	if d.Metrics != nil {
		d.Metrics.OnlinePlayers.Set(float64(d.PlayerCount()))
	}
	return nil
}

// RemovePlayer drops a player and its entity registration.
func (d *Directory) RemovePlayer(id uuid.UUID) *player.Player {
	d.playersMu.Lock()
	p := d.players[id]
	delete(d.players, id)
	d.playersMu.Unlock()

	if p != nil {
		d.UnregisterEntity(p.EntityID)
	}
	if d.Metrics != nil {
		d.Metrics.OnlinePlayers.Set(float64(d.PlayerCount()))
	}
	return p
}

// PlayerByUUID looks a player up.
func (d *Directory) PlayerByUUID(id uuid.UUID) *player.Player {
	d.playersMu.RLock()
	defer d.playersMu.RUnlock()
	return d.players[id]
}

// Players returns a snapshot of the global player table.
func (d *Directory) Players() []*player.Player {
	d.playersMu.RLock()
	defer d.playersMu.RUnlock()
	out := make([]*player.Player, 0, len(d.players))
	for _, p := range d.players {
		out = append(out, p)
	}
	return out
}

// PlayerCount returns the number of players in the Play phase.
func (d *Directory) PlayerCount() int {
	d.playersMu.RLock()
	defer d.playersMu.RUnlock()
	return len(d.players)
}

// RegisterEntity installs an entity under its unique ID.
func (d *Directory) RegisterEntity(e *player.Entity) error {
	d.entitiesMu.Lock()
	defer d.entitiesMu.Unlock()
	if _, exists := d.entities[e.EntityID]; exists {
		return fmt.Errorf("duplicate entity ID %d", e.EntityID)
	}
	d.entities[e.EntityID] = e
	return nil
}

// UnregisterEntity removes an entity.
func (d *Directory) UnregisterEntity(id int32) {
	d.entitiesMu.Lock()
	defer d.entitiesMu.Unlock()
	delete(d.entities, id)
}

// EntityByID looks an entity up.
func (d *Directory) EntityByID(id int32) *player.Entity {
	d.entitiesMu.RLock()
	defer d.entitiesMu.RUnlock()
	return d.entities[id]
}

// Entities returns a snapshot of the entity registry.
func (d *Directory) Entities() []*player.Entity {
	d.entitiesMu.RLock()
	defer d.entitiesMu.RUnlock()
	out := make([]*player.Entity, 0, len(d.entities))
	for _, e := range d.entities {
		out = append(out, e)
	}
	return out
}

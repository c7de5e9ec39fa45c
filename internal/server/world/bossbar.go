package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
)

// Bossbar is one boss bar and the set of players it is shown to.
type Bossbar struct {
	mu       sync.Mutex
	id       uuid.UUID
	title    *nbt.Compound
	health   float32
	color    int32
	division int32
	flags    uint8
	players  map[uuid.UUID]struct{}
}

// NewBossbar creates a bar with full health and the given style.
func NewBossbar(title *nbt.Compound, color, division int32) *Bossbar {
	return &Bossbar{
		id:       uuid.New(),
		title:    title,
		health:   1.0,
		color:    color,
		division: division,
		players:  make(map[uuid.UUID]struct{}),
	}
}

// UUID returns the bar's identity.
func (b *Bossbar) UUID() uuid.UUID {
	return b.id
}

// AddPlayer subscribes a player to the bar.
func (b *Bossbar) AddPlayer(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.players[id] = struct{}{}
}

// RemovePlayer unsubscribes a player.
func (b *Bossbar) RemovePlayer(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.players, id)
}

// Players returns a snapshot of the subscribed player UUIDs.
func (b *Bossbar) Players() []uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]uuid.UUID, 0, len(b.players))
	for id := range b.players {
		out = append(out, id)
	}
	return out
}

func (b *Bossbar) dataLocked() clientbound.BossbarData {
	return clientbound.BossbarData{
		UUID:     b.id,
		Title:    b.title,
		Health:   b.health,
		Color:    b.color,
		Division: b.division,
		Flags:    b.flags,
	}
}

// Add builds the add frame with the full current state.
func (b *Bossbar) Add() mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, _ := clientbound.Bossbar(clientbound.BossbarActionAdd, b.dataLocked())
	return f
}

// Remove builds the remove frame.
func (b *Bossbar) Remove() mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, _ := clientbound.Bossbar(clientbound.BossbarActionRemove, b.dataLocked())
	return f
}

// SetHealth clamps health to [0, 1] and builds the update frame.
func (b *Bossbar) SetHealth(health float32) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if health < 0 {
		health = 0
	}
	if health > 1 {
		health = 1
	}
	b.health = health
	f, _ := clientbound.Bossbar(clientbound.BossbarActionUpdateHealth, b.dataLocked())
	return f
}

// SetTitle replaces the title and builds the update frame.
func (b *Bossbar) SetTitle(title *nbt.Compound) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
	f, _ := clientbound.Bossbar(clientbound.BossbarActionUpdateTitle, b.dataLocked())
	return f
}

// SetStyle replaces color and division and builds the update frame.
func (b *Bossbar) SetStyle(color, division int32) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = color
	b.division = division
	f, _ := clientbound.Bossbar(clientbound.BossbarActionUpdateStyle, b.dataLocked())
	return f
}

// SetFlags replaces the flag byte and builds the update frame.
func (b *Bossbar) SetFlags(flags uint8) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags = flags
	f, _ := clientbound.Bossbar(clientbound.BossbarActionUpdateFlags, b.dataLocked())
	return f
}

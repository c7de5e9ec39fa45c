// Package world holds the mutable world-level state shared by all clients:
// the world border, the world clock, and boss bars. Each value guards itself
// with its own mutex; none of them touches the network.
package world

import (
	"sync"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
)

// Border is the world border. Update methods mutate under the mutex and
// return the broadcast frame reflecting the change, so a mutation is never
// observable without its packet.
type Border struct {
	mu                     sync.Mutex
	centerX, centerZ       float64
	size                   float64
	portalTeleportBoundary float64
	warningBlocks          int32
	warningTime            int32
}

// NewBorder returns a border with the vanilla defaults.
func NewBorder() *Border {
	return &Border{
		size:                   60_000_000,
		portalTeleportBoundary: 29_999_984,
		warningBlocks:          5,
		warningTime:            15,
	}
}

// Snapshot returns a copy of the border fields.
func (b *Border) Snapshot() clientbound.BorderSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Border) snapshotLocked() clientbound.BorderSnapshot {
	return clientbound.BorderSnapshot{
		CenterX:                b.centerX,
		CenterZ:                b.centerZ,
		Size:                   b.size,
		PortalTeleportBoundary: b.portalTeleportBoundary,
		WarningBlocks:          b.warningBlocks,
		WarningTime:            b.warningTime,
	}
}

// Initialize builds the Initialize World Border frame for one client
// without mutating anything.
func (b *Border) Initialize() mcnet.Frame {
	return clientbound.InitializeWorldBorder(b.Snapshot())
}

// SetCenter moves the center.
func (b *Border) SetCenter(x, z float64) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.centerX, b.centerZ = x, z
	return clientbound.SetBorderCenter(x, z)
}

// SetLerpSize starts an interpolated resize toward newDiameter.
func (b *Border) SetLerpSize(newDiameter float64, speed int64) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.size
	b.size = newDiameter
	return clientbound.SetBorderLerpSize(old, newDiameter, speed)
}

// SetSize resizes instantly.
func (b *Border) SetSize(newDiameter float64) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.size = newDiameter
	return clientbound.SetBorderSize(newDiameter)
}

// SetWarningDelay updates the warning time in seconds.
func (b *Border) SetWarningDelay(warningTime int32) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warningTime = warningTime
	return clientbound.SetBorderWarningDelay(warningTime)
}

// SetWarningDistance updates the warning distance in blocks.
func (b *Border) SetWarningDistance(warningBlocks int32) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warningBlocks = warningBlocks
	return clientbound.SetBorderWarningDistance(warningBlocks)
}

// ReInitialize applies center, size, and warning settings at once and
// returns the re-initialize frame announcing a resize at speed.
func (b *Border) ReInitialize(x, z, size float64, speed int64, warningBlocks, warningTime int32) mcnet.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.size
	b.centerX, b.centerZ = x, z
	b.size = size
	b.warningBlocks = warningBlocks
	b.warningTime = warningTime
	return clientbound.ReInitializeWorldBorder(b.snapshotLocked(), old, speed)
}

// Size returns the current diameter.
func (b *Border) Size() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

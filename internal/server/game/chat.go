package game

import (
	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/player"
	"github.com/mcpp/server/internal/server/registry"
	"github.com/mcpp/server/internal/server/world"
)

// SystemChat broadcasts a text component to everyone, or to the given
// subset when targets is non-nil.
func (d *Directory) SystemChat(message, color string, actionBar bool, targets []*player.Player) {
	frame := clientbound.SystemChat(nbt.TextComponent(message, color), actionBar)
	if targets == nil {
		d.BroadcastAll(frame)
		return
	}
	d.SendToPlayers(frame, targets)
}

// PlayerChat broadcasts a player chat message under the named chat type.
// A missing chat-type registration aborts the emission without touching
// any state.
func (d *Directory) PlayerChat(sender *player.Player, message string, timestamp, salt int64, signature []byte, chatTypeIdentifier, targetName string) {
	idx, ok := d.Registries.ID(registry.RegistryChatType, chatTypeIdentifier)
	if !ok {
		d.Log.Error("chat type identifier not found in registry", "identifier", chatTypeIdentifier)
		return
	}

	if !d.Cfg.EnableSecureChat {
		signature = nil
	}

	frame := clientbound.PlayerChat(clientbound.PlayerChatData{
		Sender:        sender.UUID,
		SenderName:    sender.Name,
		Message:       message,
		Timestamp:     timestamp,
		Salt:          salt,
		Signature:     signature,
		ChatTypeIndex: idx,
		TargetName:    targetName,
	})
	d.BroadcastAll(frame)
	d.Log.Info("chat", "player", sender.Name, "message", message)
}

// SpawnEntityForAll announces an entity to every client except its owner.
func (d *Directory) SpawnEntityForAll(e *player.Entity, exclude uuid.UUID) {
	d.BroadcastExcept(clientbound.SpawnEntity(e.SpawnData()), exclude)
}

// RemoveEntityForAll despawns one entity everywhere.
func (d *Directory) RemoveEntityForAll(entityID int32) {
	d.BroadcastAll(clientbound.RemoveEntities([]int32{entityID}))
}

// BossbarSubscribers resolves a bar's subscriber set against the player
// table, skipping players with no live connection.
func (d *Directory) BossbarSubscribers(ids []uuid.UUID) []*player.Player {
	out := make([]*player.Player, 0, len(ids))
	for _, id := range ids {
		if p := d.PlayerByUUID(id); p != nil && p.Connected() {
			out = append(out, p)
		}
	}
	return out
}

// SendBossbar pushes a boss-bar frame to the bar's subscribers.
func (d *Directory) SendBossbar(bar *world.Bossbar, frame mcnet.Frame) {
	d.SendToPlayers(frame, d.BossbarSubscribers(bar.Players()))
}

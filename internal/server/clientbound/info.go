package clientbound

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// InfoProperty is one profile property (skin, cape).
type InfoProperty struct {
	Name      string
	Value     string
	Signature string
}

// ChatSession is a player's chat signing key material.
type ChatSession struct {
	SessionID [16]byte
	ExpiresAt int64
	PubKey    []byte
	KeySig    []byte
}

// InfoEntry is one player's slice of a Player Info Update.
type InfoEntry struct {
	UUID        uuid.UUID
	Name        string
	Properties  []InfoProperty
	Session     *ChatSession // nil when the player has no signing key
	GameMode    int32
	Listed      bool
	Ping        int32
	DisplayName string // empty = none
}

// Chat-session hard limits from the protocol.
const (
	MaxSessionPubKey = 512
	MaxSessionKeySig = 4096
)

func validateSession(s *ChatSession) error {
	if len(s.PubKey) > MaxSessionPubKey {
		return fmt.Errorf("public key size %d exceeds %d bytes", len(s.PubKey), MaxSessionPubKey)
	}
	if len(s.KeySig) > MaxSessionKeySig {
		return fmt.Errorf("public key signature size %d exceeds %d bytes", len(s.KeySig), MaxSessionKeySig)
	}
	return nil
}

// PlayerInfoUpdate encodes the action bitfield followed by each player's
// sub-blocks in action-bit order. secureChat gates the initialize-chat
// signature block.
func PlayerInfoUpdate(actions uint8, players []InfoEntry, secureChat bool) (mcnet.Frame, error) {
	var w writer
	w.u8(actions)
	w.varInt(int32(len(players)))

	for _, p := range players {
		w.raw(p.UUID[:])

		if actions&packet.InfoActionAddPlayer != 0 {
			w.str(p.Name)
			w.varInt(int32(len(p.Properties)))
			for _, prop := range p.Properties {
				w.str(prop.Name)
				w.str(prop.Value)
				if prop.Signature != "" {
					w.boolean(true)
					w.str(prop.Signature)
				} else {
					w.boolean(false)
				}
			}
		}

		if actions&packet.InfoActionInitChat != 0 {
			hasSession := secureChat && p.Session != nil
			w.boolean(hasSession)
			if hasSession {
				if err := validateSession(p.Session); err != nil {
					return mcnet.Frame{}, fmt.Errorf("player %s: %w", p.Name, err)
				}
				w.raw(p.Session.SessionID[:])
				w.i64(p.Session.ExpiresAt)
				w.varInt(int32(len(p.Session.PubKey)))
				w.raw(p.Session.PubKey)
				w.varInt(int32(len(p.Session.KeySig)))
				w.raw(p.Session.KeySig)
			}
		}

		if actions&packet.InfoActionGameMode != 0 {
			w.varInt(p.GameMode)
		}

		if actions&packet.InfoActionListed != 0 {
			w.boolean(p.Listed)
		}

		if actions&packet.InfoActionLatency != 0 {
			w.varInt(p.Ping)
		}

		if actions&packet.InfoActionDisplayName != 0 {
			if p.DisplayName != "" {
				w.boolean(true)
				w.raw(nbt.Marshal(nbt.TextComponent(p.DisplayName, ""), true))
			} else {
				w.boolean(false)
			}
		}
	}

	return w.frame(packet.PlayerInfoUpdateID), nil
}

// PlayerInfoRemove drops players from the tab list.
func PlayerInfoRemove(uuids []uuid.UUID) mcnet.Frame {
	var w writer
	w.varInt(int32(len(uuids)))
	for _, id := range uuids {
		w.raw(id[:])
	}
	return w.frame(packet.PlayerInfoRemoveID)
}

// JoinGameData parameterizes the Login (play) packet.
type JoinGameData struct {
	EntityID           int32
	ViewDistance       int32
	SimulationDistance int32
	MaxPlayers         int32
	GameMode           uint8
	EnableSecureChat   bool
}

// JoinGame is the Login (play) packet for the single overworld dimension.
func JoinGame(d JoinGameData) mcnet.Frame {
	var w writer
	w.i32(d.EntityID)
	w.boolean(false) // hardcore
	w.varInt(1)
	w.str("minecraft:overworld")
	w.varInt(d.MaxPlayers)
	w.varInt(d.ViewDistance)
	w.varInt(d.SimulationDistance)
	w.boolean(false) // reduced debug info
	w.boolean(true)  // enable respawn screen
	w.boolean(false) // do limited crafting
	w.varInt(0)      // dimension type index
	w.str("minecraft:overworld")
	w.i64(0) // hashed seed
	w.u8(d.GameMode)
	w.i8(-1)         // previous game mode: undefined
	w.boolean(false) // is debug
	w.boolean(false) // is flat
	w.boolean(false) // has death location
	w.varInt(0)      // portal cooldown
	w.boolean(d.EnableSecureChat)
	return w.frame(packet.LoginPlayID)
}

// SynchronizePlayerPosition is the absolute teleport carrying a teleport ID
// the client must confirm. Yaw and pitch are reset to zero.
func SynchronizePlayerPosition(x, y, z float64, teleportID int32) mcnet.Frame {
	var w writer
	w.f64(x)
	w.f64(y)
	w.f64(z)
	w.f32(0) // yaw
	w.f32(0) // pitch
	w.u8(0)  // flags: all absolute
	w.varInt(teleportID)
	return w.frame(packet.SynchronizePlayerPositionID)
}

// PlayerAbilities pushes ability flags and movement speeds.
func PlayerAbilities(flags uint8, flyingSpeed, fovModifier float32) mcnet.Frame {
	var w writer
	w.u8(flags)
	w.f32(flyingSpeed)
	w.f32(fovModifier)
	return w.frame(packet.PlayerAbilitiesID)
}

// SetHeldItem selects the client's hotbar slot.
func SetHeldItem(slot int8) mcnet.Frame {
	var w writer
	w.i8(slot)
	return w.frame(packet.SetHeldItemID)
}

// KeepAlive probes liveness with an opaque ID.
func KeepAlive(id int64) mcnet.Frame {
	var w writer
	w.i64(id)
	return w.frame(packet.KeepAlivePlayID)
}

// Disconnect closes the connection with a JSON text component reason.
// The packet ID differs per phase, so the caller supplies it.
func Disconnect(packetID int32, reasonJSON string) mcnet.Frame {
	var w writer
	w.str(reasonJSON)
	return w.frame(packetID)
}

// BundleDelimiter brackets a packet bundle.
func BundleDelimiter() mcnet.Frame {
	var w writer
	return w.frame(packet.BundleDelimiterID)
}

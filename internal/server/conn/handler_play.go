package conn

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
	"github.com/mcpp/server/internal/server/player"
)

// addPlayerActions is the action set used when introducing a player.
const addPlayerActions = packet.InfoActionAddPlayer |
	packet.InfoActionInitChat |
	packet.InfoActionGameMode |
	packet.InfoActionListed |
	packet.InfoActionLatency

// teleportEpsilon is the slack allowed on movement packets that race an
// unconfirmed teleport.
const teleportEpsilon = 0.0625

// maxServerboundPlayID bounds the play-phase serverbound ID table.
// Anything above it is not a 1.21 packet at all.
const maxServerboundPlayID = 0x39

// startPlay transitions Configuration → Play: Join Game, position sync,
// world state, player info, and entity spawns for the new client.
func (c *Connection) startPlay() error {
	c.log = c.log.With("player", c.loginName)

	spawn := player.Position{
		X:        c.cfg.Spawn.X,
		Y:        c.cfg.Spawn.Y,
		Z:        c.cfg.Spawn.Z,
		OnGround: true,
	}
	p := player.New(c.dir.AllocateEntityID(), c.loginUUID, c.loginName, spawn)
	p.SetProperties(c.loginProps)
	p.SetGameMode(packet.GameModeCreative)
	if c.clientLocale != "" {
		p.SetLang(c.clientLocale)
	}
	p.SetConn(c)

	if err := c.dir.AddPlayer(p); err != nil {
		c.log.Error("registering player", "error", err)
		c.Disconnect("You are already connected to this server.")
		return nil
	}
	c.self = p
	c.setState(StatePlay)

	c.Send(clientbound.JoinGame(clientbound.JoinGameData{
		EntityID:           p.EntityID,
		ViewDistance:       int32(c.cfg.ViewDistance),
		SimulationDistance: int32(c.cfg.SimulationDistance),
		MaxPlayers:         int32(c.cfg.MaxPlayers),
		GameMode:           p.GameMode(),
		EnableSecureChat:   c.cfg.EnableSecureChat,
	}))

	c.synchronizePosition()

	c.Send(clientbound.PlayerAbilities(0x0D, 0.05, 0.1))
	c.Send(clientbound.SetHeldItem(int8(p.HeldSlot())))

	numNodes, nodes, root := c.dir.CommandGraph()
	c.Send(clientbound.Commands(numNodes, nodes, root))

	c.Send(clientbound.GameEvent(packet.GameEventStartWaitingChunks, 0))
	cx, cz := p.CurrentChunk()
	c.Send(clientbound.SetCenterChunk(cx, cz))

	c.Send(c.dir.Border.Initialize())
	c.Send(c.dir.Clock.Update())

	if err := c.sendPlayerInfo(p); err != nil {
		c.Disconnect(err.Error())
		return nil
	}

	// Existing entities for the new client, then the new player for
	// everyone else.
	for _, e := range c.dir.Entities() {
		if e.EntityID != p.EntityID {
			c.Send(clientbound.SpawnEntity(e.SpawnData()))
		}
	}
	c.dir.SpawnEntityForAll(&p.Entity, p.UUID)

	stateID, size, slots, carried := p.Inventory.Snapshot()
	c.Send(clientbound.ContainerContent(0, stateID, size, slots, carried))

	for _, pack := range c.cfg.ResourcePacks {
		packID, err := uuid.Parse(pack.UUID)
		if err != nil {
			c.log.Error("invalid resource pack UUID", "uuid", pack.UUID, "error", err)
			continue
		}
		c.Send(clientbound.AddResourcePack(packID, pack))
	}
	if len(c.cfg.ServerLinks) > 0 {
		c.Send(clientbound.ServerLinks(c.cfg.ServerLinks))
	}

	c.dir.SystemChat(p.Name+" joined the game", "yellow", false, nil)
	c.log.Info("player joined", "entityID", p.EntityID)

	go c.keepAliveLoop()
	return nil
}

// sendPlayerInfo introduces everyone to the new player and the new player
// to everyone.
func (c *Connection) sendPlayerInfo(p *player.Player) error {
	all := c.dir.Players()
	entries := make([]clientbound.InfoEntry, 0, len(all))
	for _, other := range all {
		entries = append(entries, other.InfoEntry())
	}

	toSelf, err := clientbound.PlayerInfoUpdate(addPlayerActions, entries, c.cfg.EnableSecureChat)
	if err != nil {
		return err
	}
	c.Send(toSelf)

	toOthers, err := clientbound.PlayerInfoUpdate(addPlayerActions, []clientbound.InfoEntry{p.InfoEntry()}, c.cfg.EnableSecureChat)
	if err != nil {
		return err
	}
	c.dir.BroadcastExcept(toOthers, p.UUID)
	return nil
}

// synchronizePosition issues a Synchronize Player Position. The teleport
// ID enters the pending set before the frame is written, and the phase
// moves to AwaitingTeleportConfirm.
func (c *Connection) synchronizePosition() {
	p := c.self

	if p.NewSpawn() {
		p.SetPosition(player.Position{
			X: c.cfg.Spawn.X, Y: c.cfg.Spawn.Y, Z: c.cfg.Spawn.Z, OnGround: true,
		})
		p.ClearNewSpawn()
	}

	pos := p.GetPosition()
	p.SetCurrentChunk(player.ChunkCoordinate(pos.X), player.ChunkCoordinate(pos.Z))

	// The sync packet always writes a zero look, and the stored rotation
	// follows the wire.
	p.UpdateLook(0, 0, pos.OnGround)

	teleportID := c.dir.NextTeleportID()

	c.mu.Lock()
	c.pendingTeleports[teleportID] = struct{}{}
	c.state.Store(int32(StateAwaitingTeleportConfirm))
	c.mu.Unlock()

	c.Send(clientbound.SynchronizePlayerPosition(pos.X, pos.Y, pos.Z, teleportID))
}

func (c *Connection) handlePlay(packetID int32, data []byte) error {
	switch packetID {
	case packet.ConfirmTeleportationID:
		return c.handleConfirmTeleportation(data)

	case packet.KeepAlivePlaySBID:
		return c.handleKeepAlive(data)

	case packet.ChatMessageSBID:
		return c.handleChatMessage(data)

	case packet.ChatCommandID:
		return c.handleChatCommand(data)

	case packet.ClientInfoPlayID:
		var info packet.ClientInfo
		if err := mcnet.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("unmarshal client information: %w", err)
		}
		c.self.SetLang(info.Locale)
		return nil

	case packet.CommandSuggestionsRequestID:
		return c.handleCommandSuggestions(data)

	case packet.PlayerSessionID:
		return c.handlePlayerSession(data)

	case packet.SetPlayerPositionID:
		var move packet.SetPlayerPosition
		if err := mcnet.Unmarshal(data, &move); err != nil {
			return fmt.Errorf("unmarshal player position: %w", err)
		}
		return c.handleMovement(move.X, move.FeetY, move.Z, 0, 0, true, false, move.OnGround)

	case packet.SetPlayerPositionAndRotationID:
		var move packet.SetPlayerPositionAndRotation
		if err := mcnet.Unmarshal(data, &move); err != nil {
			return fmt.Errorf("unmarshal player position and rotation: %w", err)
		}
		return c.handleMovement(move.X, move.FeetY, move.Z, move.Yaw, move.Pitch, true, true, move.OnGround)

	case packet.SetPlayerRotationID:
		var move packet.SetPlayerRotation
		if err := mcnet.Unmarshal(data, &move); err != nil {
			return fmt.Errorf("unmarshal player rotation: %w", err)
		}
		return c.handleMovement(0, 0, 0, move.Yaw, move.Pitch, false, true, move.OnGround)

	case packet.SetPlayerOnGroundID:
		var move packet.SetPlayerOnGround
		if err := mcnet.Unmarshal(data, &move); err != nil {
			return fmt.Errorf("unmarshal on-ground flag: %w", err)
		}
		pos := c.self.GetPosition()
		pos.OnGround = move.OnGround
		c.self.SetPosition(pos)
		return nil

	case packet.SetHeldItemSBID:
		var held packet.SetHeldItemServerbound
		if err := mcnet.Unmarshal(data, &held); err != nil {
			return fmt.Errorf("unmarshal held item: %w", err)
		}
		if held.Slot < 0 || held.Slot > 8 {
			return fmt.Errorf("%w: held slot %d out of range", ErrProtocolViolation, held.Slot)
		}
		c.self.SetHeldSlot(held.Slot)
		return nil

	case packet.SwingArmID:
		var swing packet.SwingArm
		if err := mcnet.Unmarshal(data, &swing); err != nil {
			return fmt.Errorf("unmarshal swing arm: %w", err)
		}
		animation := uint8(0)
		if swing.Hand == 1 {
			animation = 3
		}
		c.dir.BroadcastExcept(clientbound.EntityAnimation(c.self.EntityID, animation), c.self.UUID)
		return nil

	default:
		if packetID < 0 || packetID > maxServerboundPlayID {
			return fmt.Errorf("%w: packet 0x%02X not permitted in play", ErrProtocolViolation, packetID)
		}
		// A known play packet the core has no behavior for.
		return nil
	}
}

func (c *Connection) handleConfirmTeleportation(data []byte) error {
	var confirm packet.ConfirmTeleportation
	if err := mcnet.Unmarshal(data, &confirm); err != nil {
		return fmt.Errorf("unmarshal confirm teleportation: %w", err)
	}

	c.mu.Lock()
	if _, ok := c.pendingTeleports[confirm.TeleportID]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: unknown teleport id %d", ErrProtocolViolation, confirm.TeleportID)
	}
	delete(c.pendingTeleports, confirm.TeleportID)
	if len(c.pendingTeleports) == 0 {
		c.state.Store(int32(StatePlay))
	}
	c.mu.Unlock()

	return nil
}

// pendingTeleportCount is the number of unconfirmed teleports.
func (c *Connection) pendingTeleportCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pendingTeleports)
}

func (c *Connection) handleMovement(x, y, z float64, yaw, pitch float32, hasPos, hasLook, onGround bool) error {
	p := c.self
	old := p.GetPosition()

	if hasPos && c.pendingTeleportCount() > 0 {
		// Server-authoritative position wins until the client confirms;
		// only moves inside the epsilon band are accepted.
		dx, dy, dz := x-old.X, y-old.Y, z-old.Z
		if dx*dx+dy*dy+dz*dz > teleportEpsilon*teleportEpsilon {
			return nil
		}
	}

	newPos := old
	if hasPos {
		newPos.X, newPos.Y, newPos.Z = x, y, z
	}
	if hasLook {
		newPos.Yaw, newPos.Pitch, newPos.HeadYaw = yaw, pitch, yaw
	}
	newPos.OnGround = onGround
	p.SetPosition(newPos)

	switch {
	case hasPos && hasLook:
		c.broadcastMove(old, newPos, true)
	case hasPos:
		c.broadcastMove(old, newPos, false)
	case hasLook:
		c.dir.BroadcastExcept(clientbound.EntityRotation(p.EntityID, yaw, pitch, onGround), p.UUID)
		c.dir.BroadcastExcept(clientbound.HeadRotation(p.EntityID, yaw), p.UUID)
	}

	if hasPos {
		c.updateCenterChunk(newPos)
	}
	return nil
}

// broadcastMove picks relative-move packets when the deltas fit in shorts
// and falls back to an absolute teleport otherwise.
func (c *Connection) broadcastMove(old, pos player.Position, withLook bool) {
	p := c.self

	dx, okX := player.DeltaShort(old.X, pos.X)
	dy, okY := player.DeltaShort(old.Y, pos.Y)
	dz, okZ := player.DeltaShort(old.Z, pos.Z)

	if !okX || !okY || !okZ {
		c.dir.BroadcastExcept(clientbound.TeleportEntity(
			p.EntityID, pos.X, pos.Y, pos.Z, pos.Yaw, pos.Pitch, pos.OnGround), p.UUID)
		return
	}

	if withLook {
		c.dir.BroadcastExcept(clientbound.EntityLookAndRelativeMove(
			p.EntityID, dx, dy, dz, pos.Yaw, pos.Pitch, pos.OnGround), p.UUID)
		c.dir.BroadcastExcept(clientbound.HeadRotation(p.EntityID, pos.Yaw), p.UUID)
	} else {
		c.dir.BroadcastExcept(clientbound.EntityRelativeMove(
			p.EntityID, dx, dy, dz, pos.OnGround), p.UUID)
	}
}

func (c *Connection) updateCenterChunk(pos player.Position) {
	p := c.self
	cx := player.ChunkCoordinate(pos.X)
	cz := player.ChunkCoordinate(pos.Z)
	oldCX, oldCZ := p.CurrentChunk()
	if cx != oldCX || cz != oldCZ {
		p.SetCurrentChunk(cx, cz)
		c.Send(clientbound.SetCenterChunk(cx, cz))
	}
}

func (c *Connection) handleKeepAlive(data []byte) error {
	var pong packet.KeepAliveServerbound
	if err := mcnet.Unmarshal(data, &pong); err != nil {
		return fmt.Errorf("unmarshal keep alive: %w", err)
	}

	c.mu.Lock()
	matched := pong.KeepAliveID == c.lastKeepAliveID
	sentAt := c.lastKeepAliveSent
	if matched {
		c.keepAliveAcked = true
	}
	c.mu.Unlock()

	if !matched {
		c.log.Warn("keep-alive id mismatch", "got", pong.KeepAliveID)
		c.close()
		return nil
	}

	ping := int32(time.Since(sentAt).Milliseconds())
	c.self.SetPing(ping)

	update, err := clientbound.PlayerInfoUpdate(packet.InfoActionLatency,
		[]clientbound.InfoEntry{c.self.InfoEntry()}, c.cfg.EnableSecureChat)
	if err == nil {
		c.dir.BroadcastAll(update)
	}
	return nil
}

// keepAliveLoop issues fresh keep-alive IDs and enforces the ack timeout.
func (c *Connection) keepAliveLoop() {
	interval := time.Duration(c.cfg.KeepAliveSeconds) * time.Second
	timeout := time.Duration(c.cfg.KeepAliveTimeoutSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.keepAliveAcked {
				overdue := time.Since(c.lastKeepAliveSent) > timeout
				c.mu.Unlock()
				if overdue {
					c.log.Warn("keep-alive timeout")
					if c.dir.Metrics != nil {
						c.dir.Metrics.Disconnects.WithLabelValues("keepalive_timeout").Inc()
					}
					c.close()
					return
				}
				continue
			}
			id := time.Now().UnixNano()
			c.lastKeepAliveID = id
			c.lastKeepAliveSent = time.Now()
			c.keepAliveAcked = false
			c.mu.Unlock()

			if !c.Send(clientbound.KeepAlive(id)) {
				return
			}
		}
	}
}

func (c *Connection) handleChatMessage(data []byte) error {
	var chat packet.ChatMessage
	if err := mcnet.Unmarshal(data, &chat); err != nil {
		return fmt.Errorf("unmarshal chat message: %w", err)
	}

	var signature []byte
	if c.cfg.EnableSecureChat && len(chat.Rest) >= 1+256 && chat.Rest[0] == 1 {
		signature = chat.Rest[1 : 1+256]
	}

	c.dir.PlayerChat(c.self, chat.Message, chat.Timestamp, chat.Salt, signature, "minecraft:chat", "")
	return nil
}

func (c *Connection) handleChatCommand(data []byte) error {
	var cmd packet.ChatCommand
	if err := mcnet.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("unmarshal chat command: %w", err)
	}

	c.log.Info("command", "command", cmd.Command)
	c.runCommand(cmd.Command)
	return nil
}

// runCommand executes the built-in command set against the directory.
func (c *Connection) runCommand(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	self := []*player.Player{c.self}

	switch strings.ToLower(parts[0]) {
	case "help":
		names := c.dir.Commands.Names()
		c.dir.SystemChat("Commands: /"+strings.Join(names, ", /"), "gray", false, self)

	case "list":
		players := c.dir.Players()
		names := make([]string, 0, len(players))
		for _, p := range players {
			names = append(names, p.Name)
		}
		c.dir.SystemChat(fmt.Sprintf("Online (%d): %s", len(names), strings.Join(names, ", ")), "gray", false, self)

	case "say":
		if len(parts) > 1 {
			c.dir.SystemChat("["+c.self.Name+"] "+strings.Join(parts[1:], " "), "white", false, nil)
		}

	case "gamemode":
		if len(parts) != 2 {
			c.dir.SystemChat("Usage: /gamemode <survival|creative|adventure|spectator>", "red", false, self)
			return
		}
		mode, ok := parseGameMode(parts[1])
		if !ok {
			c.dir.SystemChat("Unknown game mode: "+parts[1], "red", false, self)
			return
		}
		c.self.SetGameMode(mode)
		c.Send(clientbound.GameEvent(packet.GameEventChangeGameMode, float32(mode)))
		if update, err := clientbound.PlayerInfoUpdate(packet.InfoActionGameMode,
			[]clientbound.InfoEntry{c.self.InfoEntry()}, c.cfg.EnableSecureChat); err == nil {
			c.dir.BroadcastAll(update)
		}

	case "time":
		if len(parts) != 3 || strings.ToLower(parts[1]) != "set" {
			c.dir.SystemChat("Usage: /time set <ticks>", "red", false, self)
			return
		}
		ticks, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			c.dir.SystemChat("Not a tick count: "+parts[2], "red", false, self)
			return
		}
		c.dir.BroadcastAll(c.dir.Clock.SetTimeOfDay(ticks))

	default:
		c.dir.SystemChat("Unknown command: /"+parts[0], "red", false, self)
	}
}

func parseGameMode(s string) (uint8, bool) {
	switch strings.ToLower(s) {
	case "survival":
		return packet.GameModeSurvival, true
	case "creative":
		return packet.GameModeCreative, true
	case "adventure":
		return packet.GameModeAdventure, true
	case "spectator":
		return packet.GameModeSpectator, true
	default:
		return 0, false
	}
}

func (c *Connection) handleCommandSuggestions(data []byte) error {
	var req packet.CommandSuggestionsRequest
	if err := mcnet.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("unmarshal command suggestions request: %w", err)
	}

	suggestions, start := c.dir.Commands.Suggest(req.Text)
	length := int32(len(req.Text)) - start
	c.Send(clientbound.CommandSuggestions(req.TransactionID, start, length, suggestions))
	return nil
}

// handlePlayerSession validates and installs the client's chat signing key.
func (c *Connection) handlePlayerSession(data []byte) error {
	r := bytes.NewReader(data)

	var sessionID [16]byte
	if _, err := io.ReadFull(r, sessionID[:]); err != nil {
		return fmt.Errorf("%w: session id truncated", ErrProtocolViolation)
	}
	expiresAt, err := mcnet.ReadI64(r)
	if err != nil {
		return fmt.Errorf("read session expiry: %w", err)
	}
	pubKey, err := mcnet.ReadByteArray(r)
	if err != nil {
		return fmt.Errorf("read session public key: %w", err)
	}
	keySig, err := mcnet.ReadByteArray(r)
	if err != nil {
		return fmt.Errorf("read session key signature: %w", err)
	}

	if len(pubKey) > clientbound.MaxSessionPubKey {
		return fmt.Errorf("%w: public key size %d exceeds %d bytes", ErrProtocolViolation, len(pubKey), clientbound.MaxSessionPubKey)
	}
	if len(keySig) > clientbound.MaxSessionKeySig {
		return fmt.Errorf("%w: key signature size %d exceeds %d bytes", ErrProtocolViolation, len(keySig), clientbound.MaxSessionKeySig)
	}

	c.self.SetSession(&clientbound.ChatSession{
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		PubKey:    pubKey,
		KeySig:    keySig,
	})

	update, err := clientbound.PlayerInfoUpdate(packet.InfoActionInitChat,
		[]clientbound.InfoEntry{c.self.InfoEntry()}, c.cfg.EnableSecureChat)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolViolation, err)
	}
	c.dir.BroadcastAll(update)
	return nil
}

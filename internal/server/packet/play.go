package packet

// ConfirmTeleportation acknowledges a Synchronize Player Position
// (serverbound 0x00).
type ConfirmTeleportation struct {
	TeleportID int32 `mc:"varint"`
}

func (ConfirmTeleportation) PacketID() int32 { return ConfirmTeleportationID }

// ChatMessage is a typed chat line (serverbound 0x06). The signature block
// that follows the salt is consumed as a blob; it is only inspected when
// secure chat is on.
type ChatMessage struct {
	Message   string `mc:"string"`
	Timestamp int64  `mc:"i64"`
	Salt      int64  `mc:"i64"`
	Rest      []byte `mc:"rest"`
}

func (ChatMessage) PacketID() int32 { return ChatMessageSBID }

// ChatCommand is an unsigned slash command (serverbound 0x04).
type ChatCommand struct {
	Command string `mc:"string"`
}

func (ChatCommand) PacketID() int32 { return ChatCommandID }

// KeepAliveServerbound echoes a keep-alive ID (serverbound 0x18).
type KeepAliveServerbound struct {
	KeepAliveID int64 `mc:"i64"`
}

func (KeepAliveServerbound) PacketID() int32 { return KeepAlivePlaySBID }

// SetPlayerPosition reports movement without rotation (serverbound 0x1A).
type SetPlayerPosition struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerPosition) PacketID() int32 { return SetPlayerPositionID }

// SetPlayerPositionAndRotation reports movement and look (serverbound 0x1B).
type SetPlayerPositionAndRotation struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	Yaw      float32 `mc:"f32"`
	Pitch    float32 `mc:"f32"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerPositionAndRotation) PacketID() int32 { return SetPlayerPositionAndRotationID }

// SetPlayerRotation reports look only (serverbound 0x1C).
type SetPlayerRotation struct {
	Yaw      float32 `mc:"f32"`
	Pitch    float32 `mc:"f32"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerRotation) PacketID() int32 { return SetPlayerRotationID }

// SetPlayerOnGround is the bare movement heartbeat (serverbound 0x1D).
type SetPlayerOnGround struct {
	OnGround bool `mc:"bool"`
}

func (SetPlayerOnGround) PacketID() int32 { return SetPlayerOnGroundID }

// CommandSuggestionsRequest asks for tab completions (serverbound 0x0B).
type CommandSuggestionsRequest struct {
	TransactionID int32  `mc:"varint"`
	Text          string `mc:"string"`
}

func (CommandSuggestionsRequest) PacketID() int32 { return CommandSuggestionsRequestID }

// SetHeldItemServerbound selects a hotbar slot (serverbound 0x2F).
type SetHeldItemServerbound struct {
	Slot int16 `mc:"i16"`
}

func (SetHeldItemServerbound) PacketID() int32 { return SetHeldItemSBID }

// SwingArm triggers the arm animation (serverbound 0x36).
type SwingArm struct {
	Hand int32 `mc:"varint"`
}

func (SwingArm) PacketID() int32 { return SwingArmID }

// PlayerSession installs the client's chat signing key (serverbound 0x07).
type PlayerSession struct {
	SessionID    []byte `mc:"rest"` // uuid + expiry + key + signature, length-checked by the handler
}

func (PlayerSession) PacketID() int32 { return PlayerSessionID }

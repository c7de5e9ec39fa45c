package packet

// Handshake opens every connection and selects the next phase
// (serverbound 0x00 in the Handshake phase).
type Handshake struct {
	ProtocolVersion int32  `mc:"varint"`
	ServerAddress   string `mc:"string"`
	ServerPort      uint16 `mc:"u16"`
	NextState       int32  `mc:"varint"`
}

func (Handshake) PacketID() int32 { return 0x00 }

// Handshake next-state values.
const (
	NextStateStatus = 1
	NextStateLogin  = 2
)

package packet

// StatusRequest asks for the server-list JSON (serverbound 0x00).
type StatusRequest struct{}

func (StatusRequest) PacketID() int32 { return 0x00 }

// StatusResponse carries the server-list JSON (clientbound 0x00).
type StatusResponse struct {
	JSONResponse string `mc:"string"`
}

func (StatusResponse) PacketID() int32 { return 0x00 }

// StatusPing is the client's latency probe (serverbound 0x01).
type StatusPing struct {
	Payload int64 `mc:"i64"`
}

func (StatusPing) PacketID() int32 { return 0x01 }

// StatusPong echoes the ping payload (clientbound 0x01).
type StatusPong struct {
	Payload int64 `mc:"i64"`
}

func (StatusPong) PacketID() int32 { return 0x01 }

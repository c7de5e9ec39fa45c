package packet

// LoginStart is sent by the client with their profile (serverbound 0x00).
type LoginStart struct {
	Name string `mc:"string"`
	UUID []byte `mc:"rest"` // 16 bytes; absent from some pirated clients
}

func (LoginStart) PacketID() int32 { return 0x00 }

// EncryptionRequest initiates online-mode encryption (clientbound 0x01).
type EncryptionRequest struct {
	ServerID           string `mc:"string"`
	PublicKey          []byte `mc:"bytearray"`
	VerifyToken        []byte `mc:"bytearray"`
	ShouldAuthenticate bool   `mc:"bool"`
}

func (EncryptionRequest) PacketID() int32 { return EncryptionRequestID }

// EncryptionResponse carries the RSA-encrypted shared secret (serverbound 0x01).
type EncryptionResponse struct {
	SharedSecret []byte `mc:"bytearray"`
	VerifyToken  []byte `mc:"bytearray"`
}

func (EncryptionResponse) PacketID() int32 { return 0x01 }

// LoginAcknowledged moves the connection into Configuration (serverbound 0x03).
type LoginAcknowledged struct{}

func (LoginAcknowledged) PacketID() int32 { return 0x03 }

// SetCompression enables frame compression (clientbound 0x03).
type SetCompression struct {
	Threshold int32 `mc:"varint"`
}

func (SetCompression) PacketID() int32 { return SetCompressionID }

// LoginDisconnect rejects a login with a JSON text component (clientbound 0x00).
type LoginDisconnect struct {
	Reason string `mc:"string"`
}

func (LoginDisconnect) PacketID() int32 { return LoginDisconnectID }

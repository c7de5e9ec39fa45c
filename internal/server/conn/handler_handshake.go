package conn

import (
	"fmt"

	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

func (c *Connection) handleHandshake(packetID int32, data []byte) error {
	if packetID != 0x00 {
		return fmt.Errorf("%w: expected handshake packet 0x00, got 0x%02X", ErrProtocolViolation, packetID)
	}

	var hs packet.Handshake
	if err := mcnet.Unmarshal(data, &hs); err != nil {
		return fmt.Errorf("unmarshal handshake: %w", err)
	}

	c.log.Info("handshake received",
		"protocol", hs.ProtocolVersion,
		"server", hs.ServerAddress,
		"port", hs.ServerPort,
		"nextState", hs.NextState,
	)

	switch hs.NextState {
	case packet.NextStateStatus:
		c.setState(StateStatus)
	case packet.NextStateLogin:
		if hs.ProtocolVersion != packet.ProtocolVersion {
			c.log.Warn("unsupported protocol version", "version", hs.ProtocolVersion)
		}
		c.setState(StateLogin)
	default:
		return fmt.Errorf("%w: invalid next state: %d", ErrProtocolViolation, hs.NextState)
	}

	return nil
}

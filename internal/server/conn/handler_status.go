package conn

import (
	"encoding/json"
	"fmt"

	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

type statusResponse struct {
	Version     statusVersion `json:"version"`
	Players     statusPlayers `json:"players"`
	Description statusDesc    `json:"description"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusDesc struct {
	Text string `json:"text"`
}

func (c *Connection) handleStatus(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // Status Request
		resp := statusResponse{
			Version: statusVersion{
				Name:     packet.VersionName,
				Protocol: packet.ProtocolVersion,
			},
			Players: statusPlayers{
				Max:    c.cfg.MaxPlayers,
				Online: c.dir.PlayerCount(),
			},
			Description: statusDesc{
				Text: c.cfg.MOTD,
			},
		}

		jsonBytes, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal status response: %w", err)
		}

		data, err := mcnet.Marshal(&packet.StatusResponse{JSONResponse: string(jsonBytes)})
		if err != nil {
			return err
		}
		c.Send(mcnet.Frame{ID: 0x00, Payload: data})
		return nil

	case 0x01: // Ping
		var ping packet.StatusPing
		if err := mcnet.Unmarshal(data, &ping); err != nil {
			return fmt.Errorf("unmarshal ping: %w", err)
		}

		pong, err := mcnet.Marshal(&packet.StatusPong{Payload: ping.Payload})
		if err != nil {
			return err
		}
		c.Send(mcnet.Frame{ID: 0x01, Payload: pong})
		return nil

	default:
		return fmt.Errorf("%w: unexpected status packet 0x%02X", ErrProtocolViolation, packetID)
	}
}

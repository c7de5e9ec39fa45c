package conn

import (
	"fmt"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
	"github.com/mcpp/server/internal/server/registry"
)

// beginConfiguration opens the Configuration phase: brand and feature
// flags first, then the Known Packs offer the client must answer before
// the registries go out.
func (c *Connection) beginConfiguration() error {
	c.Send(clientbound.BrandPluginMessage())
	c.Send(clientbound.FeatureFlags([]string{"minecraft:vanilla"}))
	c.Send(registry.BuildKnownPacks())
	return nil
}

func (c *Connection) handleConfiguration(packetID int32, data []byte) error {
	switch packetID {
	case packet.ClientInfoConfigID:
		var info packet.ClientInfo
		if err := mcnet.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("unmarshal client information: %w", err)
		}
		c.clientLocale = info.Locale
		c.log.Info("client information", "locale", info.Locale, "viewDistance", info.ViewDistance)
		return nil

	case packet.PluginMessageConfigSBID:
		var msg packet.PluginMessage
		if err := mcnet.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("unmarshal plugin message: %w", err)
		}
		c.log.Info("plugin message", "channel", msg.Channel)
		return nil

	case packet.KnownPacksSBID:
		return c.sendRegistries()

	case packet.FinishConfigurationAckID:
		return c.startPlay()

	default:
		return fmt.Errorf("%w: unexpected configuration packet 0x%02X", ErrProtocolViolation, packetID)
	}
}

// sendRegistries emits the registry sequence: RegistryData×6, UpdateTags,
// FinishConfiguration. A registry load failure aborts the sequence and
// leaves the client in Configuration; it will time out rather than play
// with half a registry set.
func (c *Connection) sendRegistries() error {
	if c.dir.Registry == nil {
		c.log.Error("registry data unavailable, aborting configuration")
		return nil
	}

	packets, err := registry.BuildRegistryPackets(c.dir.Registry, c.dir.Registries)
	if err != nil {
		c.log.Error("building registry packets", "error", err)
		return nil
	}
	for _, p := range packets {
		c.Send(p)
	}

	tags, err := registry.BuildUpdateTags(c.dir.Registry, func(name string) (int32, bool) {
		b, ok := c.dir.Data.BiomeByName(name)
		return b.ID, ok
	}, c.dir.Data.BlockTags)
	if err != nil {
		c.log.Error("building update tags", "error", err)
		return nil
	}
	c.Send(tags)

	c.Send(clientbound.FinishConfiguration())
	return nil
}

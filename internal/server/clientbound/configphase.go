package clientbound

import (
	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// Brand is the value answered on the minecraft:brand channel.
const Brand = "MCpp"

// BrandPluginMessage announces the server brand during Configuration.
func BrandPluginMessage() mcnet.Frame {
	var w writer
	w.str("minecraft:brand")
	w.str(Brand)
	return w.frame(packet.PluginMessageConfigID)
}

// FeatureFlags enables the vanilla feature set.
func FeatureFlags(flags []string) mcnet.Frame {
	var w writer
	w.varInt(int32(len(flags)))
	for _, f := range flags {
		w.str(f)
	}
	return w.frame(packet.FeatureFlagsID)
}

// FinishConfiguration closes the Configuration phase. No fields.
func FinishConfiguration() mcnet.Frame {
	var w writer
	return w.frame(packet.FinishConfigurationID)
}

// AddResourcePack pushes one resource pack during Play.
func AddResourcePack(packUUID uuid.UUID, pack config.ResourcePack) mcnet.Frame {
	var w writer
	w.raw(packUUID[:])
	w.str(pack.URL)
	w.str(pack.Hash)
	w.boolean(pack.Forced)
	if pack.PromptMessage != "" {
		w.boolean(true)
		w.raw(nbt.Marshal(nbt.TextComponent(pack.PromptMessage, ""), true))
	} else {
		w.boolean(false)
	}
	return w.frame(packet.AddResourcePackPlayID)
}

// RemoveResourcePack removes one pack, or all when hasUUID is false.
func RemoveResourcePack(hasUUID bool, packUUID uuid.UUID) mcnet.Frame {
	var w writer
	w.boolean(hasUUID)
	if hasUUID {
		w.raw(packUUID[:])
	}
	return w.frame(packet.RemoveResourcePackConfigID)
}

// ServerLinks advertises labelled URLs in the pause menu.
func ServerLinks(links []config.ServerLink) mcnet.Frame {
	var w writer
	w.varInt(int32(len(links)))
	for _, link := range links {
		w.boolean(false) // not built-in
		w.raw(nbt.Marshal(nbt.TextComponent(link.Label, ""), true))
		w.str(link.URL)
	}
	return w.frame(packet.ServerLinksID)
}

// UpdateRecipes is intentionally empty: the recipe body is not sent.
func UpdateRecipes() mcnet.Frame {
	var w writer
	w.varInt(0)
	return w.frame(packet.UpdateRecipesID)
}

package registry

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// chatType is one hardcoded chat_type registry entry.
type chatType struct {
	identifier     string
	translationKey string
	parameters     []string
}

var chatTypes = []chatType{
	{"minecraft:chat", "chat.type.text", []string{"sender", "content"}},
	{"minecraft:system", "chat.type.system", []string{"content"}},
	{"minecraft:announcement", "chat.type.announcement", []string{"sender"}},
}

func (ct chatType) serialize() *nbt.Compound {
	params := make(nbt.List, len(ct.parameters))
	for i, p := range ct.parameters {
		params[i] = nbt.String(p)
	}
	decoration := nbt.NewCompound().
		Put("translation_key", nbt.String(ct.translationKey)).
		Put("parameters", params)
	narration := nbt.NewCompound().
		Put("translation_key", nbt.String(ct.translationKey+".narrate")).
		Put("parameters", params)
	return nbt.NewCompound().
		Put("chat", decoration).
		Put("narration", narration)
}

// BuildKnownPacks declares the data packs the registries are drawn from.
func BuildKnownPacks() mcnet.Frame {
	var buf bytes.Buffer
	mcnet.WriteVarInt(&buf, 1)
	mcnet.WriteString(&buf, "minecraft")
	mcnet.WriteString(&buf, "core")
	mcnet.WriteString(&buf, "1.21")
	return mcnet.Frame{ID: packet.KnownPacksID, Payload: buf.Bytes()}
}

// BuildRegistryPackets builds the six Registry Data packets in send order.
// The chat_type entries are also registered with mgr so gameplay chat can
// resolve identifier → numeric index later.
func BuildRegistryPackets(f *File, mgr *Manager) ([]mcnet.Frame, error) {
	var packets []mcnet.Frame

	dimensions, err := f.Entries(RegistryDimensionType)
	if err != nil {
		return nil, fmt.Errorf("load dimension types: %w", err)
	}
	packets = append(packets, buildRegistryData(RegistryDimensionType, dimensions))

	biomes, err := f.BiomeEntries()
	if err != nil {
		return nil, fmt.Errorf("load biomes: %w", err)
	}
	var biomeDefs []Entry
	for _, b := range biomes {
		if !b.IsTag {
			biomeDefs = append(biomeDefs, Entry{Identifier: b.Identifier, Data: b.Data})
		}
	}
	packets = append(packets, buildRegistryData(RegistryBiome, biomeDefs))

	paintings, err := f.Entries(RegistryPaintingVariant)
	if err != nil {
		return nil, fmt.Errorf("load painting variants: %w", err)
	}
	packets = append(packets, buildRegistryData(RegistryPaintingVariant, paintings))

	wolves, err := f.Entries(RegistryWolfVariant)
	if err != nil {
		return nil, fmt.Errorf("load wolf variants: %w", err)
	}
	packets = append(packets, buildRegistryData(RegistryWolfVariant, wolves))

	damageTypes, err := f.Entries(RegistryDamageType)
	if err != nil {
		return nil, fmt.Errorf("load damage types: %w", err)
	}
	packets = append(packets, buildRegistryData(RegistryDamageType, damageTypes))

	chatEntries := make([]Entry, len(chatTypes))
	for i, ct := range chatTypes {
		chatEntries[i] = Entry{Identifier: ct.identifier, Data: ct.serialize()}
		mgr.Add(RegistryChatType, ct.identifier)
	}
	packets = append(packets, buildRegistryData(RegistryChatType, chatEntries))

	return packets, nil
}

func buildRegistryData(registry string, entries []Entry) mcnet.Frame {
	var buf bytes.Buffer
	mcnet.WriteString(&buf, registry)
	mcnet.WriteVarInt(&buf, int32(len(entries)))
	for _, e := range entries {
		mcnet.WriteString(&buf, e.Identifier)
		mcnet.WriteBool(&buf, true)
		buf.Write(nbt.Marshal(e.Data, true))
	}
	return mcnet.Frame{ID: packet.RegistryDataID, Payload: buf.Bytes()}
}

// BuildUpdateTags builds the Update Tags packet carrying the biome tag
// group (tag members resolved to biome IDs) and the block tag group.
func BuildUpdateTags(f *File, biomeID func(string) (int32, bool), blockTags map[string][]int32) (mcnet.Frame, error) {
	biomes, err := f.BiomeEntries()
	if err != nil {
		return mcnet.Frame{}, fmt.Errorf("load biomes: %w", err)
	}

	var buf bytes.Buffer
	mcnet.WriteVarInt(&buf, 2)

	mcnet.WriteString(&buf, RegistryBiome)
	var tags []BiomeEntry
	for _, b := range biomes {
		if b.IsTag {
			tags = append(tags, b)
		}
	}
	mcnet.WriteVarInt(&buf, int32(len(tags)))
	for _, tag := range tags {
		mcnet.WriteString(&buf, tag.Identifier)
		ids := make([]int32, 0, len(tag.Members))
		for _, member := range tag.Members {
			id, ok := biomeID(member)
			if !ok {
				return mcnet.Frame{}, fmt.Errorf("biome tag %q references unknown biome %q", tag.Identifier, member)
			}
			ids = append(ids, id)
		}
		mcnet.WriteVarInt(&buf, int32(len(ids)))
		for _, id := range ids {
			mcnet.WriteVarInt(&buf, id)
		}
	}

	mcnet.WriteString(&buf, "minecraft:block")
	mcnet.WriteVarInt(&buf, int32(len(blockTags)))
	for _, tag := range sortedTagNames(blockTags) {
		ids := blockTags[tag]
		mcnet.WriteString(&buf, tag)
		mcnet.WriteVarInt(&buf, int32(len(ids)))
		for _, id := range ids {
			mcnet.WriteVarInt(&buf, id)
		}
	}

	return mcnet.Frame{ID: packet.UpdateTagsID, Payload: buf.Bytes()}, nil
}

func sortedTagNames(tags map[string][]int32) []string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mcpp/server/internal/server/nbt"
)

// Registry identifiers sent during Configuration.
const (
	RegistryDimensionType   = "minecraft:dimension_type"
	RegistryBiome           = "minecraft:worldgen/biome"
	RegistryPaintingVariant = "minecraft:painting_variant"
	RegistryWolfVariant     = "minecraft:wolf_variant"
	RegistryDamageType      = "minecraft:damage_type"
	RegistryChatType        = "minecraft:chat_type"
)

// Entry is one registry entry: an identifier and its NBT payload.
type Entry struct {
	Identifier string
	Data       *nbt.Compound
}

// BiomeEntry distinguishes biome definitions from biome tags, which share
// the biome section of the data file. Tag entries are keyed with a leading
// '#' and list member biome names.
type BiomeEntry struct {
	Identifier string
	IsTag      bool
	Data       *nbt.Compound
	Members    []string
}

// File is a parsed registry_data.json: registry name → entry name → body.
type File struct {
	sections map[string]map[string]json.RawMessage
}

// LoadFile reads and parses a compound registry data file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry data: %w", err)
	}

	var sections map[string]map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&sections); err != nil {
		return nil, fmt.Errorf("parse registry data: %w", err)
	}
	return &File{sections: sections}, nil
}

// Entries returns one section's entries as NBT compounds, sorted by
// identifier so the implicit numeric indices are reproducible.
func (f *File) Entries(registry string) ([]Entry, error) {
	section, ok := f.sections[registry]
	if !ok {
		return nil, fmt.Errorf("registry %q missing from data file", registry)
	}

	names := sortedKeys(section)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		c, err := compoundFromJSON(section[name])
		if err != nil {
			return nil, fmt.Errorf("registry %q entry %q: %w", registry, name, err)
		}
		entries = append(entries, Entry{Identifier: name, Data: c})
	}
	return entries, nil
}

// BiomeEntries splits the biome section into definitions and tags.
func (f *File) BiomeEntries() ([]BiomeEntry, error) {
	section, ok := f.sections[RegistryBiome]
	if !ok {
		return nil, fmt.Errorf("registry %q missing from data file", RegistryBiome)
	}

	names := sortedKeys(section)
	entries := make([]BiomeEntry, 0, len(names))
	for _, name := range names {
		if tag, isTag := strings.CutPrefix(name, "#"); isTag {
			var members []string
			if err := json.Unmarshal(section[name], &members); err != nil {
				return nil, fmt.Errorf("biome tag %q: %w", tag, err)
			}
			entries = append(entries, BiomeEntry{Identifier: tag, IsTag: true, Members: members})
			continue
		}
		c, err := compoundFromJSON(section[name])
		if err != nil {
			return nil, fmt.Errorf("biome %q: %w", name, err)
		}
		entries = append(entries, BiomeEntry{Identifier: name, Data: c})
	}
	return entries, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compoundFromJSON converts a JSON object into an NBT compound. Integers
// become Int (Long when out of range), other numbers Float, booleans Byte,
// homogeneous integer arrays IntArray, everything else List or Compound.
func compoundFromJSON(raw json.RawMessage) (*nbt.Compound, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return objectToCompound(obj)
}

func objectToCompound(obj map[string]any) (*nbt.Compound, error) {
	c := nbt.NewCompound()
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t, err := valueToTag(obj[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		c.Put(k, t)
	}
	return c, nil
}

func valueToTag(v any) (nbt.Tag, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return nbt.Byte(1), nil
		}
		return nbt.Byte(0), nil
	case string:
		return nbt.String(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			if i >= -1<<31 && i < 1<<31 {
				return nbt.Int(int32(i)), nil
			}
			return nbt.Long(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, err
		}
		return nbt.Float(float32(f)), nil
	case map[string]any:
		return objectToCompound(val)
	case []any:
		if ints, ok := allInts(val); ok {
			return nbt.IntArray(ints), nil
		}
		list := make(nbt.List, 0, len(val))
		for _, elem := range val {
			t, err := valueToTag(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, t)
		}
		return list, nil
	case nil:
		return nil, fmt.Errorf("null value")
	default:
		return nil, fmt.Errorf("unsupported JSON type %T", v)
	}
}

func allInts(vals []any) ([]int32, bool) {
	if len(vals) == 0 {
		return nil, false
	}
	ints := make([]int32, 0, len(vals))
	for _, v := range vals {
		n, ok := v.(json.Number)
		if !ok {
			return nil, false
		}
		i, err := n.Int64()
		if err != nil || i < -1<<31 || i >= 1<<31 {
			return nil, false
		}
		ints = append(ints, int32(i))
	}
	return ints, true
}

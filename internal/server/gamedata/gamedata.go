// Package gamedata loads the static JSON data files read once at boot:
// blocks, items, biomes, collision shapes, and tag tables. A missing or
// malformed file logs and yields an empty map; it never aborts startup.
package gamedata

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// BiomeData is one biome record from biomes.json.
type BiomeData struct {
	ID               int32   `json:"id"`
	Name             string  `json:"name"`
	DisplayName      string  `json:"display_name"`
	Category         string  `json:"category"`
	Temperature      float64 `json:"temperature"`
	HasPrecipitation bool    `json:"precipitation"`
	Dimension        string  `json:"dimension"`
	Color            int32   `json:"color"`
}

// BlockData is one block record from blocks.json.
type BlockData struct {
	ID           int32   `json:"id"`
	Name         string  `json:"name"`
	DisplayName  string  `json:"displayName"`
	Hardness     float64 `json:"hardness"`
	Resistance   float64 `json:"resistance"`
	StackSize    int32   `json:"stackSize"`
	Diggable     bool    `json:"diggable"`
	Transparent  bool    `json:"transparent"`
	DefaultState int32   `json:"defaultState"`
	MinStateID   int32   `json:"minStateId"`
	MaxStateID   int32   `json:"maxStateId"`
}

// ItemData is one item record from items.json.
type ItemData struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	StackSize   int32  `json:"stackSize"`
}

// Shape is an axis-aligned box: minX, minY, minZ, maxX, maxY, maxZ.
type Shape [6]float64

// Store holds every static table, read-mostly after Load returns.
type Store struct {
	Biomes map[string]BiomeData
	Blocks map[string]BlockData
	Items  map[string]ItemData

	BlockTags map[string][]int32
	ItemTags  map[string][]int32

	BlockNameToShapeIDs map[string][]int32
	ShapeIDToShapes     map[int32][]Shape
}

// Load reads every data file under dir. Each file is independent; a failure
// in one leaves the others intact.
func Load(dir string, log *slog.Logger) *Store {
	s := &Store{
		Biomes:              make(map[string]BiomeData),
		Blocks:              make(map[string]BlockData),
		Items:               make(map[string]ItemData),
		BlockTags:           make(map[string][]int32),
		ItemTags:            make(map[string][]int32),
		BlockNameToShapeIDs: make(map[string][]int32),
		ShapeIDToShapes:     make(map[int32][]Shape),
	}

	loadRecords(filepath.Join(dir, "biomes.json"), log, func(records []BiomeData) {
		for _, b := range records {
			if b.Name == "" {
				log.Error("biome entry missing name")
				continue
			}
			s.Biomes[b.Name] = b
		}
	})

	loadRecords(filepath.Join(dir, "blocks.json"), log, func(records []BlockData) {
		for _, b := range records {
			if b.Name == "" {
				log.Error("block entry missing name")
				continue
			}
			s.Blocks[b.Name] = b
		}
	})

	loadRecords(filepath.Join(dir, "items.json"), log, func(records []ItemData) {
		for _, it := range records {
			if it.Name == "" {
				log.Error("item entry missing name")
				continue
			}
			s.Items[it.Name] = it
		}
	})

	s.loadCollisions(filepath.Join(dir, "collisions.json"), log)

	s.BlockTags = loadTags(filepath.Join(dir, "block_tags.json"), log, func(name string) (int32, bool) {
		b, ok := s.Blocks[StripNamespace(name)]
		return b.ID, ok
	})
	s.ItemTags = loadTags(filepath.Join(dir, "item_tags.json"), log, func(name string) (int32, bool) {
		it, ok := s.Items[StripNamespace(name)]
		return it.ID, ok
	})

	log.Info("game data loaded",
		"blocks", len(s.Blocks),
		"items", len(s.Items),
		"biomes", len(s.Biomes),
		"blockTags", len(s.BlockTags),
		"itemTags", len(s.ItemTags),
	)
	return s
}

// BiomeByName returns a biome record by its short name.
func (s *Store) BiomeByName(name string) (BiomeData, bool) {
	b, ok := s.Biomes[StripNamespace(name)]
	return b, ok
}

// StripNamespace drops a leading namespace such as "minecraft:", up to and
// including the first colon.
func StripNamespace(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func loadRecords[T any](path string, log *slog.Logger, apply func([]T)) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to open data file", "path", path, "error", err)
		return
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error("failed to parse data file", "path", path, "error", err)
		return
	}
	apply(records)
}

func loadTags(path string, log *slog.Logger, resolve func(string) (int32, bool)) map[string][]int32 {
	tags := make(map[string][]int32)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to open tag file", "path", path, "error", err)
		return tags
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Error("failed to parse tag file", "path", path, "error", err)
		return tags
	}

	for tag, names := range raw {
		ids := make([]int32, 0, len(names))
		for _, name := range names {
			id, ok := resolve(name)
			if !ok {
				log.Error("tag references unknown entry", "tag", tag, "entry", name)
				continue
			}
			ids = append(ids, id)
		}
		tags[tag] = ids
	}
	return tags
}

type collisionsFile struct {
	Blocks map[string]json.RawMessage `json:"blocks"`
	Shapes map[string][]Shape         `json:"shapes"`
}

// loadCollisions parses the two-section collisions file: a block → shape-ID
// mapping (scalar or list) and a shape-ID → box-list table.
func (s *Store) loadCollisions(path string, log *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to open collisions file", "path", path, "error", err)
		return
	}

	var file collisionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Error("failed to parse collisions file", "path", path, "error", err)
		return
	}

	for name, raw := range file.Blocks {
		var single int32
		if err := json.Unmarshal(raw, &single); err == nil {
			s.BlockNameToShapeIDs[name] = []int32{single}
			continue
		}
		var many []int32
		if err := json.Unmarshal(raw, &many); err == nil {
			s.BlockNameToShapeIDs[name] = many
			continue
		}
		log.Error("invalid shape reference in collisions file", "block", name)
	}

	for idStr, shapes := range file.Shapes {
		var id int32
		if err := json.Unmarshal([]byte(idStr), &id); err != nil {
			log.Error("invalid shape ID in collisions file", "id", idStr)
			continue
		}
		s.ShapeIDToShapes[id] = shapes
	}
}

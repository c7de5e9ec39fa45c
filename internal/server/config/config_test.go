package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := Load(filepath.Join(t.TempDir(), "server.yaml"), cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 25565 || cfg.CompressionThreshold != 256 {
		t.Errorf("defaults disturbed: %+v", cfg)
	}
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	yaml := `
port: 25570
motd: "test server"
enable_secure_chat: true
view_distance: 6
spawn:
  x: 100.5
  y: 70
  z: -8.5
resource_packs:
  - uuid: "069a79f4-44e9-4726-a5be-fca90e38aaf5"
    url: "https://example.com/pack.zip"
    hash: "abc"
    forced: true
    prompt_message: "Install this"
server_links:
  - label: "Website"
    url: "https://example.com"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	fileCfg := DefaultConfig()
	if err := Load(path, fileCfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// CLI set port explicitly; everything else follows the file.
	cfg := DefaultConfig()
	cfg.Port = 9999
	Merge(cfg, fileCfg, map[string]bool{"port": true})

	if cfg.Port != 9999 {
		t.Errorf("explicit flag overridden: port = %d", cfg.Port)
	}
	if cfg.MOTD != "test server" {
		t.Errorf("motd = %q", cfg.MOTD)
	}
	if !cfg.EnableSecureChat {
		t.Error("secure chat not merged")
	}
	if cfg.ViewDistance != 6 {
		t.Errorf("view distance = %d", cfg.ViewDistance)
	}
	if cfg.Spawn.X != 100.5 || cfg.Spawn.Z != -8.5 {
		t.Errorf("spawn = %+v", cfg.Spawn)
	}
	if len(cfg.ResourcePacks) != 1 || !cfg.ResourcePacks[0].Forced {
		t.Errorf("resource packs = %+v", cfg.ResourcePacks)
	}
	if len(cfg.ServerLinks) != 1 || cfg.ServerLinks[0].Label != "Website" {
		t.Errorf("server links = %+v", cfg.ServerLinks)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load(path, DefaultConfig()); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

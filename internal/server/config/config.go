// Package config holds the server configuration, loaded from server.yaml
// and merged with CLI flags.
package config

import (
	"crypto/rsa"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourcePack describes one pack pushed to clients after configuration.
type ResourcePack struct {
	UUID          string `yaml:"uuid"`
	URL           string `yaml:"url"`
	Hash          string `yaml:"hash"`
	Forced        bool   `yaml:"forced"`
	PromptMessage string `yaml:"prompt_message"` // empty = no prompt
}

// ServerLink is one entry of the Server Links packet.
type ServerLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// SpawnPosition is the world spawn used for fresh players.
type SpawnPosition struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Config holds the server configuration.
type Config struct {
	Port                 int    `yaml:"port"`
	MOTD                 string `yaml:"motd"`
	MaxPlayers           int    `yaml:"max_players"`
	OnlineMode           bool   `yaml:"online_mode"`
	ViewDistance         int    `yaml:"view_distance"`
	SimulationDistance   int    `yaml:"simulation_distance"`
	CompressionThreshold int    `yaml:"compression_threshold"` // -1 disables
	EnableSecureChat     bool   `yaml:"enable_secure_chat"`
	KeepAliveSeconds     int    `yaml:"keep_alive_seconds"`
	KeepAliveTimeoutSecs int    `yaml:"keep_alive_timeout_seconds"`
	ResourceDir          string `yaml:"resource_dir"`
	MetricsPort          int    `yaml:"metrics_port"` // 0 disables

	Spawn         SpawnPosition  `yaml:"spawn"`
	ResourcePacks []ResourcePack `yaml:"resource_packs"`
	ServerLinks   []ServerLink   `yaml:"server_links"`

	// Populated at startup in online mode, never serialized.
	PrivateKey   *rsa.PrivateKey `yaml:"-"`
	PublicKeyDER []byte          `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                 25565,
		MOTD:                 "An MCpp Server",
		MaxPlayers:           20,
		OnlineMode:           false,
		ViewDistance:         10,
		SimulationDistance:   10,
		CompressionThreshold: 256,
		EnableSecureChat:     false,
		KeepAliveSeconds:     10,
		KeepAliveTimeoutSecs: 30,
		ResourceDir:          "resources",
		Spawn:                SpawnPosition{X: 0.5, Y: 64.0, Z: 0.5},
	}
}

// Load reads a YAML config file into cfg. A missing file leaves cfg
// unchanged so the defaults apply.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Merge overlays fileCfg onto cfg for every field whose flag was not
// explicitly set on the command line.
func Merge(cfg, fileCfg *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fileCfg.Port
	}
	if !explicitFlags["motd"] {
		cfg.MOTD = fileCfg.MOTD
	}
	if !explicitFlags["max-players"] {
		cfg.MaxPlayers = fileCfg.MaxPlayers
	}
	if !explicitFlags["online-mode"] {
		cfg.OnlineMode = fileCfg.OnlineMode
	}
	if !explicitFlags["view-distance"] {
		cfg.ViewDistance = fileCfg.ViewDistance
	}
	if !explicitFlags["compression-threshold"] {
		cfg.CompressionThreshold = fileCfg.CompressionThreshold
	}
	if !explicitFlags["secure-chat"] {
		cfg.EnableSecureChat = fileCfg.EnableSecureChat
	}
	if !explicitFlags["resource-dir"] {
		cfg.ResourceDir = fileCfg.ResourceDir
	}
	if !explicitFlags["metrics-port"] {
		cfg.MetricsPort = fileCfg.MetricsPort
	}
	cfg.SimulationDistance = fileCfg.SimulationDistance
	cfg.KeepAliveSeconds = fileCfg.KeepAliveSeconds
	cfg.KeepAliveTimeoutSecs = fileCfg.KeepAliveTimeoutSecs
	cfg.Spawn = fileCfg.Spawn
	cfg.ResourcePacks = fileCfg.ResourcePacks
	cfg.ServerLinks = fileCfg.ServerLinks
}

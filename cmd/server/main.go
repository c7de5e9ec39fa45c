package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpp/server/internal/server"
	"github.com/mcpp/server/internal/server/config"
)

func main() {
	cfg := config.DefaultConfig()

	var configPath string
	flag.StringVar(&configPath, "config", "server.yaml", "path to config file")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.MOTD, "motd", cfg.MOTD, "server description")
	flag.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "maximum players shown in the server list")
	flag.BoolVar(&cfg.OnlineMode, "online-mode", cfg.OnlineMode, "enable session-server authentication")
	flag.IntVar(&cfg.ViewDistance, "view-distance", cfg.ViewDistance, "view distance in chunks")
	flag.IntVar(&cfg.CompressionThreshold, "compression-threshold", cfg.CompressionThreshold, "compression threshold in bytes (-1 disables)")
	flag.BoolVar(&cfg.EnableSecureChat, "secure-chat", cfg.EnableSecureChat, "require signed chat sessions")
	flag.StringVar(&cfg.ResourceDir, "resource-dir", cfg.ResourceDir, "directory with the static data files")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "prometheus metrics port (0 disables)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Load the config file, then re-apply any explicitly set CLI flags.
	fileCfg := config.DefaultConfig()
	if err := config.Load(configPath, fileCfg); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	explicitFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicitFlags[f.Name] = true
	})
	config.Merge(cfg, fileCfg, explicitFlags)

	if cfg.OnlineMode {
		key, err := rsa.GenerateKey(rand.Reader, 1024)
		if err != nil {
			log.Error("generate RSA key", "error", err)
			os.Exit(1)
		}
		cfg.PrivateKey = key
		cfg.PublicKeyDER, err = x509.MarshalPKIXPublicKey(&key.PublicKey)
		if err != nil {
			log.Error("marshal public key", "error", err)
			os.Exit(1)
		}
		log.Info("online mode enabled, RSA keypair generated")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, log)
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// Package server owns the TCP listener, the world tick loop, and the
// per-connection goroutines.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"time"

	"github.com/mcpp/server/internal/server/config"
	"github.com/mcpp/server/internal/server/conn"
	"github.com/mcpp/server/internal/server/game"
	"github.com/mcpp/server/internal/server/gamedata"
	"github.com/mcpp/server/internal/server/metrics"
	"github.com/mcpp/server/internal/server/registry"
)

// tickInterval is one world tick.
const tickInterval = 50 * time.Millisecond

// ticksPerTimeUpdate spaces the Update Time broadcasts one second apart.
const ticksPerTimeUpdate = 20

// Server accepts client connections and drives the world clock.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	dir     *game.Directory
	metrics *metrics.Metrics
}

// New loads the static data and assembles the shared directory.
func New(cfg *config.Config, log *slog.Logger) *Server {
	m := metrics.New()
	data := gamedata.Load(cfg.ResourceDir, log)

	regFile, err := registry.LoadFile(filepath.Join(cfg.ResourceDir, "registry_data.json"))
	if err != nil {
		// Clients will stall in Configuration until this is fixed, but
		// the server itself stays up.
		log.Error("loading registry data", "error", err)
		regFile = nil
	}

	return &Server{
		cfg:     cfg,
		log:     log,
		dir:     game.NewDirectory(cfg, log, data, regFile, m),
		metrics: m,
	}
}

// Directory exposes the shared context, mainly for tests.
func (s *Server) Directory() *game.Directory {
	return s.dir
}

// Start listens for connections and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	s.metrics.Serve(ctx, s.cfg.MetricsPort, s.log)

	s.log.Info("server started",
		"port", s.cfg.Port,
		"onlineMode", s.cfg.OnlineMode,
		"motd", s.cfg.MOTD,
		"secureChat", s.cfg.EnableSecureChat,
	)

	go s.tickLoop(ctx)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server shutting down")
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}

		connection := conn.NewConnection(ctx, c, s.cfg, s.log, s.dir)
		go connection.Handle()
	}
}

// tickLoop advances the world clock and broadcasts the time once a second.
func (s *Server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var ticks int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.dir.Clock.Advance(1)
			ticks++
			if ticks%ticksPerTimeUpdate == 0 {
				s.dir.BroadcastAll(frame)
			}
		}
	}
}

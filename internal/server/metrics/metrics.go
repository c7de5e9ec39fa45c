// Package metrics exposes the server's Prometheus instrumentation on an
// optional HTTP port.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the counters the protocol core updates.
type Metrics struct {
	registry *prometheus.Registry

	ConnectedClients prometheus.Gauge
	OnlinePlayers    prometheus.Gauge
	PacketsIn        prometheus.Counter
	PacketsOut       prometheus.Counter
	BroadcastDrops   prometheus.Counter
	Disconnects      *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcpp_connected_clients",
			Help: "Currently connected client sockets.",
		}),
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcpp_online_players",
			Help: "Players in the Play phase.",
		}),
		PacketsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcpp_packets_in_total",
			Help: "Inbound frames decoded.",
		}),
		PacketsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcpp_packets_out_total",
			Help: "Outbound frames written.",
		}),
		BroadcastDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcpp_broadcast_drops_total",
			Help: "Clients disconnected because their outbound queue overflowed.",
		}),
		Disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcpp_disconnects_total",
			Help: "Disconnects by reason kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.ConnectedClients,
		m.OnlinePlayers,
		m.PacketsIn,
		m.PacketsOut,
		m.BroadcastDrops,
		m.Disconnects,
	)
	return m
}

// Serve exposes /metrics until the context is cancelled. Port 0 disables it.
func (m *Metrics) Serve(ctx context.Context, port int, log *slog.Logger) {
	if port == 0 {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	go func() {
		log.Info("metrics listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "error", err)
		}
	}()
}

package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus is the Collector backed by client_golang counters, gauges
// and a histogram for transfer sizes, registered against a
// caller-supplied registry.
type Prometheus struct {
	connectionsOpened prometheus.Counter
	connectionsActive prometheus.Gauge
	authAttempts      *prometheus.CounterVec
	commands          *prometheus.CounterVec
	transfers         *prometheus.CounterVec
	transferBytes     *prometheus.HistogramVec
}

// NewPrometheus registers the collector's vectors against reg and
// returns it.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		connectionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftpd_connections_opened_total",
			Help: "Total control connections accepted.",
		}),
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ftpd_connections_active",
			Help: "Control connections currently open.",
		}),
		authAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftpd_auth_attempts_total",
			Help: "PASS attempts by result.",
		}, []string{"result"}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftpd_commands_total",
			Help: "Control commands handled, by verb.",
		}, []string{"command"}),
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftpd_transfers_total",
			Help: "Completed data-channel transfers, by kind (stor, retr, list).",
		}, []string{"kind"}),
		transferBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ftpd_transfer_bytes",
			Help:    "Size of completed transfers in bytes, by kind.",
			Buckets: prometheus.ExponentialBuckets(64, 8, 8),
		}, []string{"kind"}),
	}
}

func (p *Prometheus) ConnectionOpened() {
	p.connectionsOpened.Inc()
	p.connectionsActive.Inc()
}

func (p *Prometheus) ConnectionClosed() {
	p.connectionsActive.Dec()
}

func (p *Prometheus) AuthAttempt(result string) {
	p.authAttempts.WithLabelValues(result).Inc()
}

func (p *Prometheus) CommandHandled(cmd string) {
	p.commands.WithLabelValues(cmd).Inc()
}

func (p *Prometheus) TransferCompleted(kind string, bytes int64) {
	p.transfers.WithLabelValues(kind).Inc()
	p.transferBytes.WithLabelValues(kind).Observe(float64(bytes))
}

var _ Collector = (*Prometheus)(nil)

// Serve runs an HTTP server exposing /metrics on addr until ctx is
// canceled, at which point it shuts down gracefully. A blank addr is
// rejected by the caller before Serve is invoked.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics listener: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if logger != nil {
			logger.Info("stopping metrics listener", "addr", addr)
		}
		return srv.Shutdown(shutdownCtx)
	}
}

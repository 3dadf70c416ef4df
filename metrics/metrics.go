// Package metrics exports transport counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tagwire/logger"
	"github.com/arloliu/go-tagwire/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every exported metric.
const Namespace = "tagwire"

// NewCollectors returns collectors reading m on every scrape. A non-nil active
// adds a gauge of the currently served connections.
func NewCollectors(m *transport.Metrics, active func() int) []prometheus.Collector {
	collectors := []prometheus.Collector{
		counterFunc("frames_received_total", "Frames fully received.", &m.FrameRecvCount),
		counterFunc("frames_sent_total", "Frames fully sent.", &m.FrameSendCount),
		counterFunc("bytes_received_total", "Bytes consumed by successful receives.", &m.ByteRecvCount),
		counterFunc("bytes_sent_total", "Bytes written by successful sends.", &m.ByteSendCount),
		counterFunc("timeouts_total", "Readiness waits that expired.", &m.TimeoutCount),
		counterFunc("errors_total", "Failed transfers, timeouts included.", &m.ErrCount),
	}

	if active != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_connections",
			Help:      "Connections currently served.",
		}, func() float64 { return float64(active()) }))
	}

	return collectors
}

// Register registers the collectors of m with reg.
func Register(reg prometheus.Registerer, m *transport.Metrics, active func() int) error {
	for _, c := range NewCollectors(m, active) {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// NewHandler returns an HTTP handler serving /metrics from g and a /health probe.
func NewHandler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

// ListenAndServe serves NewHandler(g) on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, g prometheus.Gatherer, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Info("metrics server: listening", "address", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server: stopped", "error", err)
		return err
	}

	return nil
}

func counterFunc(name, help string, v *atomic.Uint64) prometheus.CounterFunc {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(v.Load()) })
}

// Package metrics publishes fixer metrics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Recorder is what the fix engine reports to. A nil-free no-op
// implementation exists for commands that do not serve metrics.
type Recorder interface {
	IncSweeps()
	IncFixed()
	IncConfirmationFixes()
	IncWriteFailures()
	SetLastProcessedID(id int64)
	SetWatcherActive(active bool)
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) IncSweeps()               {}
func (Nop) IncFixed()                {}
func (Nop) IncConfirmationFixes()    {}
func (Nop) IncWriteFailures()        {}
func (Nop) SetLastProcessedID(int64) {}
func (Nop) SetWatcherActive(bool)    {}

// PrometheusRecorder publishes fixer metrics on its own registry and can
// serve them over HTTP.
type PrometheusRecorder struct {
	listenAddress string
	log           logrus.FieldLogger
	registry      *prom.Registry
	server        *http.Server

	sweeps            prom.Counter
	fixed             prom.Counter
	confirmationFixes prom.Counter
	writeFailures     prom.Counter
	lastProcessedID   prom.Gauge
	watcherActive     prom.Gauge
}

// NewPrometheusRecorder builds and registers the fixer metrics. listenAddress
// may be empty, in which case Start is a no-op and the recorder only counts.
func NewPrometheusRecorder(listenAddress string, log logrus.FieldLogger) *PrometheusRecorder {
	r := &PrometheusRecorder{
		listenAddress: listenAddress,
		log:           log,
		registry:      prom.NewRegistry(),
	}

	r.sweeps = prom.NewCounter(prom.CounterOpts{
		Name: "smsfix_sweeps_total",
		Help: "Number of fixup sweeps run",
	})
	r.fixed = prom.NewCounter(prom.CounterOpts{
		Name: "smsfix_messages_fixed_total",
		Help: "Number of message timestamps adjusted",
	})
	r.confirmationFixes = prom.NewCounter(prom.CounterOpts{
		Name: "smsfix_confirmation_fixes_total",
		Help: "Number of adjustments made by the confirmation sweep",
	})
	r.writeFailures = prom.NewCounter(prom.CounterOpts{
		Name: "smsfix_write_failures_total",
		Help: "Number of failed timestamp writes",
	})
	r.lastProcessedID = prom.NewGauge(prom.GaugeOpts{
		Name: "smsfix_last_processed_id",
		Help: "Frontier: id of the newest message known to be processed",
	})
	r.watcherActive = prom.NewGauge(prom.GaugeOpts{
		Name: "smsfix_watcher_active",
		Help: "Whether the watcher is monitoring the store (1/0)",
	})

	r.registry.MustRegister(r.sweeps, r.fixed, r.confirmationFixes,
		r.writeFailures, r.lastProcessedID, r.watcherActive)

	return r
}

func (r *PrometheusRecorder) IncSweeps()            { r.sweeps.Inc() }
func (r *PrometheusRecorder) IncFixed()             { r.fixed.Inc() }
func (r *PrometheusRecorder) IncConfirmationFixes() { r.confirmationFixes.Inc() }
func (r *PrometheusRecorder) IncWriteFailures()     { r.writeFailures.Inc() }

func (r *PrometheusRecorder) SetLastProcessedID(id int64) {
	r.lastProcessedID.Set(float64(id))
}

func (r *PrometheusRecorder) SetWatcherActive(active bool) {
	if active {
		r.watcherActive.Set(1)
	} else {
		r.watcherActive.Set(0)
	}
}

// Start serves /metrics on the configured address in a background goroutine.
func (r *PrometheusRecorder) Start() {
	if r.listenAddress == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	r.server = &http.Server{Addr: r.listenAddress, Handler: mux}

	r.log.WithField("address", r.listenAddress).Info("serving metrics")
	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.log.WithError(err).Error("metrics listener failed")
		}
	}()
}

// Shutdown stops the metrics listener.
func (r *PrometheusRecorder) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.server.Shutdown(shutdownCtx)
}

// Ensure both implementations satisfy the interface.
var (
	_ Recorder = Nop{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

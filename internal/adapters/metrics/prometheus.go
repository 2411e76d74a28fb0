// Package metrics records command and pipeline metrics in Prometheus.
package metrics

import (
	"context"
	"errors"
	"fishbot/internal/core/domain"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	defaultNamespace = "fishbot"
	shutdownTimeout  = 5 * time.Second
)

type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	commands       *prometheus.CounterVec
	steps          *prometheus.HistogramVec
	colorFallbacks prometheus.Counter
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "commands_total",
		Help:      "Handled command invocations by command and outcome.",
	}, []string{"command", "outcome"})

	r.steps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "pipeline_step_seconds",
		Help:      "Duration of pp pipeline steps.",
		Buckets:   r.buckets,
	}, []string{"step"})

	r.colorFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "color_fallbacks_total",
		Help:      "Cover colours replaced by the default colour.",
	})

	r.registry.MustRegister(r.commands, r.steps, r.colorFallbacks)

	return r
}

func (r *Recorder) CommandHandled(command string, err error) {
	r.commands.WithLabelValues(command, Outcome(err)).Inc()
}

func (r *Recorder) ObserveStep(step string, duration time.Duration) {
	r.steps.WithLabelValues(step).Observe(duration.Seconds())
}

func (r *Recorder) ColorFallback() {
	r.colorFallbacks.Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome maps a command error onto a low cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidLink):
		return "invalid_link"
	case errors.Is(err, domain.ErrBeatmapNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidBeatmapData):
		return "invalid_beatmap"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrFetchFailed):
		return "fetch_failed"
	default:
		return "error"
	}
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("failed to shut down metrics server")
		}
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

package metrics

import (
	"context"
	"errors"
	"fishbot/internal/core/domain"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CommandHandled(t *testing.T) {
	r := NewRecorder(WithRegistry(prometheus.NewRegistry()))

	r.CommandHandled("/pp", nil)
	r.CommandHandled("/pp", nil)
	r.CommandHandled("/pp", &domain.ParseError{Reason: domain.ErrMissingFragment})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.commands.WithLabelValues("/pp", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("/pp", "invalid_link")))
}

func TestRecorder_ObserveStepAndFallback(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewRecorder(WithRegistry(registry), WithNamespace("test"), WithHistogramBuckets([]float64{0.1, 1}))

	r.ObserveStep("beatmap", 200*time.Millisecond)
	r.ColorFallback()

	assert.Equal(t, 1, testutil.CollectAndCount(r.steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.colorFallbacks))

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_pipeline_step_seconds")
	assert.Contains(t, names, "test_color_fallbacks_total")
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder(WithRegistry(prometheus.NewRegistry()))
	r.CommandHandled("/ping", nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fishbot_commands_total{command="/ping",outcome="ok"} 1`)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: "ok"},
		{name: "parse error", err: &domain.ParseError{Reason: domain.ErrNotANumber}, want: "invalid_link"},
		{name: "not found", err: fmt.Errorf("beatmap 1: %w", domain.ErrBeatmapNotFound), want: "not_found"},
		{name: "bad beatmap", err: fmt.Errorf("%w: eof", domain.ErrInvalidBeatmapData), want: "invalid_beatmap"},
		{name: "timeout", err: &domain.FetchError{Resource: "x", Err: context.DeadlineExceeded}, want: "timeout"},
		{name: "http status", err: &domain.FetchError{Resource: "x", StatusCode: 404}, want: "fetch_failed"},
		{name: "other", err: errors.New("boom"), want: "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Outcome(tc.err))
		})
	}
}

func TestRecorder_ServeStopsWithContext(t *testing.T) {
	r := NewRecorder(WithRegistry(prometheus.NewRegistry()))
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

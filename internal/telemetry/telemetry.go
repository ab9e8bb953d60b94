// Package telemetry exposes run progress as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/sim"
)

// Collector owns a private registry so several collectors (and tests) never
// clash on the global one.
type Collector struct {
	registry *prometheus.Registry

	RunsTotal    *prometheus.CounterVec
	StepsTotal   prometheus.Counter
	RunDuration  prometheus.Histogram
	Spread       prometheus.Gauge
	Connection   prometheus.Gauge
	Polarization prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netechos_runs_total",
			Help: "Finished runs by termination reason",
		}, []string{"termination"}),
		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "netechos_steps_total",
			Help: "Simulation steps executed across all runs",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "netechos_run_duration_seconds",
			Help:    "Wall time per run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Spread: factory.NewGauge(prometheus.GaugeOpts{
			Name: "netechos_attitude_spread",
			Help: "Max pairwise attitude difference of the latest snapshot",
		}),
		Connection: factory.NewGauge(prometheus.GaugeOpts{
			Name: "netechos_connection_mean",
			Help: "Mean off-diagonal connection strength of the latest snapshot",
		}),
		Polarization: factory.NewGauge(prometheus.GaugeOpts{
			Name: "netechos_polarization",
			Help: "Mean pairwise |θi-θj| of the latest snapshot",
		}),
	}
}

// Observer returns a sim.Observer feeding this collector. Step 0 is the
// initial state and is not counted as an executed step.
func (c *Collector) Observer() sim.Observer {
	return sim.ObserverFunc(func(step int, s dynamo.State) {
		if step > 0 {
			c.StepsTotal.Inc()
		}
		sum := metrics.Summarize(step, s, 0)
		c.Spread.Set(sum.Spread)
		c.Connection.Set(sum.ConnectionMean)
		c.Polarization.Set(sum.Polarization)
	})
}

// RunFinished records a completed run.
func (c *Collector) RunFinished(res *sim.Result, elapsed time.Duration) {
	c.RunsTotal.WithLabelValues(string(res.Termination.Reason)).Inc()
	c.RunDuration.Observe(elapsed.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultFetchTimeout    = 10 * time.Second
)

type RefreshMetrics struct {
	Refreshes *prometheus.CounterVec
	Products  prometheus.Gauge
	Duration  prometheus.Histogram
}

func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	m := &RefreshMetrics{
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_refresh_total",
				Help: "Catalog refresh attempts by result",
			},
			[]string{"result"},
		),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products in the current catalog snapshot",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "catalog_refresh_duration_seconds",
			Help: "Catalog fetch and parse latency",
		}),
	}

	reg.MustRegister(m.Refreshes, m.Products, m.Duration)
	return m
}

// Refresher is the single writer of a Store: it fetches the feed, parses it
// and swaps the snapshot only when both steps succeed.
type Refresher struct {
	Source   Source
	Store    *Store
	Log      *zap.Logger
	Metrics  *RefreshMetrics
	Interval time.Duration
	Timeout  time.Duration
}

// Load runs one refresh. The error is returned either way; silent only
// lowers the log level so background failures stay quiet.
func (r *Refresher) Load(ctx context.Context, silent bool) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	records, err := r.Source.Fetch(ctx)
	if err != nil {
		r.observe("failure", start)
		r.logFailure(err, silent)
		return fmt.Errorf("fetch catalog: %w", err)
	}

	products, company := Load(records)
	if company == "" {
		company = r.Store.Current().Company
	}

	snap := &Snapshot{
		Products: products,
		Company:  company,
		Version:  uuid.NewString(),
		LoadedAt: time.Now().UTC(),
	}
	r.Store.Replace(snap)
	r.observe("success", start)

	if r.Metrics != nil {
		r.Metrics.Products.Set(float64(len(products)))
	}
	if r.Log != nil {
		fields := []zap.Field{
			zap.String("version", snap.Version),
			zap.Int("records", len(records)),
			zap.Int("products", len(products)),
			zap.Bool("silent", silent),
		}
		if silent {
			r.Log.Debug("catalog refreshed", fields...)
		} else {
			r.Log.Info("catalog loaded", fields...)
		}
	}
	return nil
}

// Run refreshes in the background every Interval until ctx is done. Each
// tick starts its own refresh; a slow one does not hold back the next, and
// whichever finishes last becomes the snapshot.
func (r *Refresher) Run(ctx context.Context) {
	t := time.NewTicker(r.interval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			go func() { _ = r.Load(ctx, true) }()
		}
	}
}

func (r *Refresher) observe(result string, start time.Time) {
	if r.Metrics == nil {
		return
	}
	r.Metrics.Refreshes.WithLabelValues(result).Inc()
	r.Metrics.Duration.Observe(time.Since(start).Seconds())
}

func (r *Refresher) logFailure(err error, silent bool) {
	if r.Log == nil {
		return
	}
	if silent {
		r.Log.Warn("background catalog refresh failed", zap.Error(err))
		return
	}
	r.Log.Error("catalog load failed", zap.Error(err))
}

func (r *Refresher) interval() time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	return DefaultRefreshInterval
}

func (r *Refresher) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultFetchTimeout
}

// Package metrics exposes prometheus metrics for feed assembly.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 实现 service.Recorder
type Collector struct {
	assembly      *prometheus.HistogramVec
	degraded      *prometheus.CounterVec
	likesCollapse prometheus.Counter
	superseded    prometheus.Counter
}

// NewCollector 创建并注册到 reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		assembly: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelf_feed_assembly_seconds",
			Help:    "Time to assemble a feed, by feed kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_feed_degraded_sections_total",
			Help: "Sub-fetches that failed and were rendered empty, by section.",
		}, []string{"section"}),
		likesCollapse: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelf_like_rows_collapsed_total",
			Help: "Duplicate like rows dropped by read-time deduplication.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelf_requests_superseded_total",
			Help: "In-flight reads cancelled by a newer request from the same viewer.",
		}),
	}
	reg.MustRegister(c.assembly, c.degraded, c.likesCollapse, c.superseded)
	return c
}

func (c *Collector) ObserveAssembly(feed string, d time.Duration) {
	c.assembly.WithLabelValues(feed).Observe(d.Seconds())
}

func (c *Collector) SectionDegraded(section string) {
	c.degraded.WithLabelValues(section).Inc()
}

func (c *Collector) LikesCollapsed(n int) {
	if n > 0 {
		c.likesCollapse.Add(float64(n))
	}
}

func (c *Collector) Superseded() { c.superseded.Inc() }

// Handler 返回 /metrics 处理器
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

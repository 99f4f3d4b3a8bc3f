// ABOUTME: Prometheus metrics for the web server
// ABOUTME: Pipeline gauges are computed from the tracker on every scrape
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func newMetrics(t *tracker.Tracker, now func() time.Time) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"method", "route", "code"}),
	}
	m.registry.MustRegister(m.requests)
	m.registry.MustRegister(newPipelineCollector(t, now))
	return m
}

func (m *metrics) observeRequest(method, route string, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// pipelineCollector reads the collection at scrape time so the gauges never
// drift from the stored data.
type pipelineCollector struct {
	tracker *tracker.Tracker
	now     func() time.Time

	prospects     *prometheus.Desc
	byGroup       *prometheus.Desc
	closedRevenue *prometheus.Desc
	pipelineValue *prometheus.Desc
	dealsClosed   *prometheus.Desc
	dealsLost     *prometheus.Desc
	stale         *prometheus.Desc
}

func newPipelineCollector(t *tracker.Tracker, now func() time.Time) *pipelineCollector {
	return &pipelineCollector{
		tracker: t,
		now:     now,
		prospects: prometheus.NewDesc("prospector_prospects_total",
			"Prospects in the collection", nil, nil),
		byGroup: prometheus.NewDesc("prospector_prospects_by_group",
			"Prospects per funnel group", []string{"group"}, nil),
		closedRevenue: prometheus.NewDesc("prospector_closed_revenue_dollars",
			"Sum of deal values for closed deals", nil, nil),
		pipelineValue: prometheus.NewDesc("prospector_pipeline_value_dollars",
			"Sum of deal values for open prospects", nil, nil),
		dealsClosed: prometheus.NewDesc("prospector_deals_closed",
			"Prospects in deal-closed", nil, nil),
		dealsLost: prometheus.NewDesc("prospector_deals_lost",
			"Prospects in deal-lost", nil, nil),
		stale: prometheus.NewDesc("prospector_stale_prospects",
			"Open prospects without recent activity", nil, nil),
	}
}

func (c *pipelineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.prospects
	ch <- c.byGroup
	ch <- c.closedRevenue
	ch <- c.pipelineValue
	ch <- c.dealsClosed
	ch <- c.dealsLost
	ch <- c.stale
}

func (c *pipelineCollector) Collect(ch chan<- prometheus.Metric) {
	stats := viz.GenerateDashboardStats(c.tracker.List(), c.now())

	ch <- prometheus.MustNewConstMetric(c.prospects, prometheus.GaugeValue, float64(stats.TotalProspects))
	for _, g := range models.Groups() {
		ch <- prometheus.MustNewConstMetric(c.byGroup, prometheus.GaugeValue, float64(stats.CountByGroup[g]), g)
	}
	ch <- prometheus.MustNewConstMetric(c.closedRevenue, prometheus.GaugeValue, stats.ClosedRevenue)
	ch <- prometheus.MustNewConstMetric(c.pipelineValue, prometheus.GaugeValue, stats.PipelineValue)
	ch <- prometheus.MustNewConstMetric(c.dealsClosed, prometheus.GaugeValue, float64(stats.DealsClosed))
	ch <- prometheus.MustNewConstMetric(c.dealsLost, prometheus.GaugeValue, float64(stats.DealsLost))
	ch <- prometheus.MustNewConstMetric(c.stale, prometheus.GaugeValue, float64(len(stats.StaleProspects)))
}

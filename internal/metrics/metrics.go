package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of a scrape run.
type Metrics struct {
	Registry *prometheus.Registry

	PagesTotal    prometheus.Counter
	ListingsTotal prometheus.Counter
	DetailsTotal  *prometheus.CounterVec
	WrittenTotal  prometheus.Counter
	UpsertsTotal  *prometheus.CounterVec
	LastRunUnix   prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		PagesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "esbd_listing_pages_fetched_total",
			Help: "Listing pages fetched and parsed.",
		}),
		ListingsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "esbd_listings_extracted_total",
			Help: "Listings extracted before global dedupe.",
		}),
		DetailsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "esbd_detail_fetches_total",
			Help: "Detail enrichment attempts by outcome.",
		}, []string{"outcome"}), // ok | fail
		WrittenTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "esbd_records_written_total",
			Help: "Canonical records written to the output file.",
		}),
		UpsertsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "esbd_sink_upserts_total",
			Help: "Sink upsert calls by sink and outcome.",
		}, []string{"sink", "outcome"}),
		LastRunUnix: f.NewGauge(prometheus.GaugeOpts{
			Name: "esbd_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
}

func (m *Metrics) IncDetail(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "fail"
	}
	m.DetailsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncUpsert(sink string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "fail"
	}
	m.UpsertsTotal.WithLabelValues(sink, outcome).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

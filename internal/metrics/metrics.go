package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_queries_total",
		Help: "The total number of catalog queries by view",
	}, []string{"view"})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "listings_query_duration_seconds",
		Help:    "Time spent answering a catalog query",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	ResultSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "listings_query_result_size",
		Help:    "Number of listings returned per query",
		Buckets: prometheus.LinearBuckets(0, 1, 8),
	})

	DeferredListings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_deferred_total",
		Help: "Listings shown after clean matches because of missing data",
	})

	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_favorite_toggles_total",
		Help: "Favorite toggles by resulting state",
	}, []string{"state"})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "listings_catalog_size",
		Help: "Number of listings in the loaded catalog",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})
)

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveTo records the elapsed seconds and returns the duration.
func (t *Timer) ObserveTo(o prometheus.Observer) time.Duration {
	d := t.Duration()
	o.Observe(d.Seconds())
	return d
}

// ViewLabel names the query view for the Queries counter.
func ViewLabel(favoritesOnly bool) string {
	if favoritesOnly {
		return "favorites"
	}
	return "catalog"
}

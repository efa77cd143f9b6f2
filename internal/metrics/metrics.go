package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"atelier/internal/db"
)

var (
	tokenLookupDesc = prometheus.NewDesc(
		"atelier_token_lookups_total",
		"Total share-token lookup count by kind and outcome",
		[]string{"kind", "outcome"},
		nil,
	)
)

// TokenLookupCollector is a custom Prometheus collector that reads token
// lookup counts from the database on each scrape.
type TokenLookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *TokenLookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tokenLookupDesc
}

// Collect queries the database for all token lookups and emits them as counters.
func (c *TokenLookupCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllTokenLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect token lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			tokenLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Kind,
			l.Outcome,
		)
	}
}

// Recorder provides async token lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&TokenLookupCollector{db: database})
	})
}

// RecordTokenLookup asynchronously records a token lookup outcome.
func RecordTokenLookup(kind, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementTokenLookup(context.Background(), kind, outcome); err != nil {
			slog.Error("failed to record token lookup", "kind", kind, "outcome", outcome, "error", err)
		}
	}()
}

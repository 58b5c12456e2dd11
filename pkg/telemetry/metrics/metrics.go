package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "finance_atlas"

// Metrics holds the collectors exported on /metrics. A nil *Metrics records nothing.
type Metrics struct {
	boardPages     *prometheus.CounterVec
	boardFailures  *prometheus.CounterVec
	ledgerQueries  *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	importedRows   *prometheus.CounterVec
	boardCacheHits *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		boardPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_pages_total",
			Help:      "Board item pages fetched.",
		}, []string{"board"}),
		boardFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_fetch_failures_total",
			Help:      "Board fetches aborted by a transport error.",
		}, []string{"board"}),
		ledgerQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_queries_total",
			Help:      "Ledger range queries by outcome.",
		}, []string{"outcome"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent computing a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_rows_total",
			Help:      "Payment rows processed by the importer.",
		}, []string{"outcome"}),
		boardCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_cache_lookups_total",
			Help:      "Board snapshot cache lookups by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.boardPages,
			m.boardFailures,
			m.ledgerQueries,
			m.reportDuration,
			m.importedRows,
			m.boardCacheHits,
		)
	}
	return m
}

func (m *Metrics) BoardPage(board string) {
	if m == nil {
		return
	}
	m.boardPages.WithLabelValues(board).Inc()
}

func (m *Metrics) BoardFailure(board string) {
	if m == nil {
		return
	}
	m.boardFailures.WithLabelValues(board).Inc()
}

func (m *Metrics) LedgerQuery(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ledgerQueries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReport(report string, started time.Time) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ImportedRow(ok bool) {
	if m == nil {
		return
	}
	outcome := "inserted"
	if !ok {
		outcome = "failed"
	}
	m.importedRows.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.boardCacheHits.WithLabelValues(result).Inc()
}

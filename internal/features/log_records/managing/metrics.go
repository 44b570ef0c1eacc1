package log_records_managing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	importResultSucceeded = "succeeded"
	importResultFailed    = "failed"

	importOutcomeCompleted = "completed"
	importOutcomeCancelled = "cancelled"
	importOutcomeRejected  = "rejected"
)

var (
	metricsOnce          sync.Once
	fabricatedDatesTotal prometheus.Counter
	importedRecordsTotal *prometheus.CounterVec
	importsTotal         *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		fabricatedDatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logkeeper",
			Subsystem: "log_records",
			Name:      "fabricated_dates_total",
			Help:      "Records stored with the current time because the submitted date was empty",
		})

		importedRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logkeeper",
			Subsystem: "log_records",
			Name:      "imported_records_total",
			Help:      "Batch import units by result",
		}, []string{"result"})

		importsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logkeeper",
			Subsystem: "log_records",
			Name:      "imports_total",
			Help:      "Batch imports by outcome",
		}, []string{"outcome"})

		if err := prometheus.Register(fabricatedDatesTotal); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
					fabricatedDatesTotal = existing
				}
			}
		}

		for _, collector := range []**prometheus.CounterVec{&importedRecordsTotal, &importsTotal} {
			if err := prometheus.Register(*collector); err != nil {
				if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
					if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
						*collector = existing
					}
				}
			}
		}
	})
}

// GetFabricatedDatesCounter counts empty dates replaced by the current time.
func GetFabricatedDatesCounter() prometheus.Counter {
	initMetrics()
	return fabricatedDatesTotal
}

func recordFabricatedDate() {
	GetFabricatedDatesCounter().Inc()
}

func recordImport(summary *ImportSummary) {
	initMetrics()

	importedRecordsTotal.WithLabelValues(importResultSucceeded).Add(float64(summary.Succeeded))
	importedRecordsTotal.WithLabelValues(importResultFailed).Add(float64(summary.Failed))

	outcome := importOutcomeCompleted
	if summary.IsCancelled {
		outcome = importOutcomeCancelled
	}
	importsTotal.WithLabelValues(outcome).Inc()
}

func recordRejectedImport() {
	initMetrics()
	importsTotal.WithLabelValues(importOutcomeRejected).Inc()
}

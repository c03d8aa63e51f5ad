// Package metrics exposes sweep progress as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Case statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// PromSink records case runs in Prometheus metrics.
type PromSink struct {
	cases     *prometheus.CounterVec
	duration  prometheus.Histogram
	arbDays   prometheus.Counter
	discharge prometheus.Counter
}

// NewPromSink registers sweep metrics on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pvs_cases_total",
		Help: "Total number of simulated cases",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pvs_case_duration_seconds",
		Help:    "Wall time to build and dispatch one case",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	arbDays := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pvs_arbitrage_days_total",
		Help: "Days eligible for price arbitrage across all cases",
	})
	discharge := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pvs_battery_discharge_mwh_total",
		Help: "Battery energy delivered at the POI across all cases",
	})

	var err error
	if cases, err = register(reg, cases); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if arbDays, err = register(reg, arbDays); err != nil {
		return nil, err
	}
	if discharge, err = register(reg, discharge); err != nil {
		return nil, err
	}
	return &PromSink{cases: cases, duration: duration, arbDays: arbDays, discharge: discharge}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(T), nil
		}
		return c, err
	}
	return c, nil
}

// ObserveCase records one finished case. A nil sink is a no-op.
func (s *PromSink) ObserveCase(status string, elapsed time.Duration, arbitrageDays int, dischargeMWh float64) {
	if s == nil {
		return
	}
	s.cases.WithLabelValues(status).Inc()
	s.duration.Observe(elapsed.Seconds())
	if arbitrageDays > 0 {
		s.arbDays.Add(float64(arbitrageDays))
	}
	if dischargeMWh > 0 {
		s.discharge.Add(dischargeMWh)
	}
}

package observability

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/linkbudget/core"
)

// Evaluation outcomes, used as the "outcome" label.
const (
	OutcomeValid           = "valid"
	OutcomeValidationError = "validation_error"
	OutcomeUnitMismatch    = "unit_mismatch"
	OutcomeGeometryError   = "geometry_error"
	OutcomeError           = "error"
)

// EvaluationCollector exposes link budget evaluation metrics.
type EvaluationCollector struct {
	gatherer prometheus.Gatherer

	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	LinkMargin         prometheus.Histogram
	LinksClosed        prometheus.Counter
}

// NewEvaluationCollector registers evaluation metrics against the provided registerer.
func NewEvaluationCollector(reg prometheus.Registerer) (*EvaluationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linkbudget_evaluations_total",
		Help: "Link budget evaluations, labeled by outcome.",
	}, []string{"outcome"})
	evaluations, err := registerCounterVec(reg, evaluations, "linkbudget_evaluations_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "linkbudget_evaluation_duration_seconds",
		Help:    "Wall time of a single engine Run.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
	duration, err = registerHistogram(reg, duration, "linkbudget_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	margin := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "linkbudget_link_margin_db",
		Help:    "Link margin of valid evaluations in dB.",
		Buckets: []float64{-30, -20, -10, -6, -3, 0, 3, 6, 10, 20, 30},
	})
	margin, err = registerHistogram(reg, margin, "linkbudget_link_margin_db")
	if err != nil {
		return nil, err
	}

	closed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linkbudget_link_closed_total",
		Help: "Valid evaluations whose link margin was non-negative.",
	})
	closed, err = registerCounter(reg, closed, "linkbudget_link_closed_total")
	if err != nil {
		return nil, err
	}

	return &EvaluationCollector{
		gatherer:           gatherer,
		Evaluations:        evaluations,
		EvaluationDuration: duration,
		LinkMargin:         margin,
		LinksClosed:        closed,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EvaluationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Outcome classifies the error returned by core.Engine.Run.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, core.ErrValidation):
		return OutcomeValidationError
	case errors.Is(err, core.ErrUnitMismatch):
		return OutcomeUnitMismatch
	case errors.Is(err, core.ErrInvalidGeometry):
		return OutcomeGeometryError
	default:
		return OutcomeError
	}
}

// ObserveEvaluation records one Run: its outcome, its duration and, when
// it succeeded, its margin.
func (c *EvaluationCollector) ObserveEvaluation(res core.Results, err error, d time.Duration) {
	if c == nil {
		return
	}
	if c.Evaluations != nil {
		c.Evaluations.WithLabelValues(Outcome(err)).Inc()
	}
	if c.EvaluationDuration != nil {
		c.EvaluationDuration.Observe(d.Seconds())
	}
	if err != nil || !res.Valid {
		return
	}
	if c.LinkMargin != nil {
		c.LinkMargin.Observe(res.LinkMargin)
	}
	if res.Closes() && c.LinksClosed != nil {
		c.LinksClosed.Inc()
	}
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

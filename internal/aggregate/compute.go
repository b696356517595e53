package aggregate

import (
	"climate-feed/internal/models"
)

// Default minimum coverage fractions. Precipitation families demand a
// stricter coverage than the rest.
const (
	DefaultMinCoverage = 0.75
	PrecipMinCoverage  = 0.9
)

// AggregateFunc is the uniform shape of every library function once
// adapted: a period's records, the expected full-coverage count and
// the minimum coverage fraction in, a summary out. A nil summary means
// the period had nothing to report for this family.
type AggregateFunc func(records []models.DailyRecord, numExpected int, minCoverage float64) (Summary, error)

// Func couples an aggregation function with the family name its
// fields are emitted under and its coverage default.
type Func struct {
	Name        string
	MinCoverage float64
	Compute     AggregateFunc
}

// Adapt lifts a typed aggregation function into an AggregateFunc,
// folding a typed nil result into an untyped one.
func Adapt[T any, P interface {
	*T
	Summary
}](f func([]models.DailyRecord, int, float64) (P, error)) AggregateFunc {
	return func(records []models.DailyRecord, numExpected int, minCoverage float64) (Summary, error) {
		s, err := f(records, numExpected, minCoverage)
		if err != nil || s == nil {
			return nil, err
		}
		return s, nil
	}
}

// NewFunc builds a Func with the default coverage fraction.
func NewFunc(name string, compute AggregateFunc) Func {
	return Func{Name: name, MinCoverage: DefaultMinCoverage, Compute: compute}
}

// NewPrecipFunc builds a Func with the precipitation coverage
// fraction.
func NewPrecipFunc(name string, compute AggregateFunc) Func {
	return Func{Name: name, MinCoverage: PrecipMinCoverage, Compute: compute}
}

// ComputeDMA aggregates one variable family's daily series into
// decade, month and year records, applying every given function to
// each period. The input must be sorted as GroupPeriods requires.
func ComputeDMA(records []models.DailyRecord, funcs []Func) ([]models.AggregatedRecord, error) {
	periods, err := GroupPeriods(records)
	if err != nil {
		return nil, err
	}
	out := make([]models.AggregatedRecord, 0, len(periods))
	for _, p := range periods {
		fields := models.Fields{}
		for _, fn := range funcs {
			minCoverage := fn.MinCoverage
			if minCoverage == 0 {
				minCoverage = DefaultMinCoverage
			}
			summary, err := fn.Compute(p.Records, p.Expected, minCoverage)
			if err != nil {
				return nil, err
			}
			if summary == nil {
				continue
			}
			fields.Merge(summary.Fields(fn.Name))
		}
		out = append(out, models.AggregatedRecord{
			StationID:  p.Key.StationID,
			PeriodDate: p.Key.Date,
			Level:      p.Key.Level,
			Fields:     fields,
		})
	}
	return out, nil
}

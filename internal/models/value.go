package models

import (
	"time"
)

// Value is the tagged daily datum consumed by the aggregation functions.
// Each function declares which variant it expects; feeding it another
// variant is a programming error, not a data finding.
type Value interface {
	isValue()
}

// Scalar is a single daily number (Tmax, daily precipitation, ...).
type Scalar float64

func (Scalar) isValue() {}

// Pair carries two related daily numbers observed together, e.g.
// (mean temperature, relative humidity) for the bioclimatic indices or
// (gust speed, gust direction) for wind. Either component may be nil.
type Pair struct {
	First  *float64
	Second *float64
}

func (Pair) isValue() {}

// Vector is a fixed-length numeric vector summed element-wise across a
// period, e.g. a wind speed/direction frequency grid.
type Vector []float64

func (Vector) isValue() {}

// Composite carries the per-day components of an already multi-part
// daily summary (e.g. pressure mean/max/min). Components may be nil.
type Composite []*float64

func (Composite) isValue() {}

// DailyRecord is one day of one variable family for one station, the
// row shape consumed by the period grouper and aggregation functions.
// Valid mirrors the contributing flag of the source row; Value is nil
// when the day reported nothing at all.
type DailyRecord struct {
	Station Station
	Date    time.Time
	Value   Value
	Valid   bool
}

// Contributes reports whether the record counts toward coverage:
// flagged valid and carrying a present value.
func (r DailyRecord) Contributes() bool {
	return r.Valid && r.Value != nil
}

// ScalarValue unwraps a Scalar daily value. The second result is false
// when the value is absent or not a Scalar.
func (r DailyRecord) ScalarValue() (float64, bool) {
	s, ok := r.Value.(Scalar)
	if !ok {
		return 0, false
	}
	return float64(s), true
}

// PairValue unwraps a Pair daily value.
func (r DailyRecord) PairValue() (Pair, bool) {
	p, ok := r.Value.(Pair)
	return p, ok
}

// VectorValue unwraps a Vector daily value.
func (r DailyRecord) VectorValue() (Vector, bool) {
	v, ok := r.Value.(Vector)
	return v, ok
}

// CompositeValue unwraps a Composite daily value.
func (r DailyRecord) CompositeValue() (Composite, bool) {
	c, ok := r.Value.(Composite)
	return c, ok
}

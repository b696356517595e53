package aggregate

import (
	"fmt"
	"math"
	"time"

	"climate-feed/internal/models"
)

// All reported statistics are rounded to one decimal place.
const roundPrecision = 1

// outputDateLayout anchors extremum dates at local midnight, the form
// the archive stores them in.
const outputDateLayout = "2006-01-02 00:00:00"

// Summary is a computed per-family statistical summary. Fields
// flattens it into output record fields under the family's name, e.g.
// "prec24.val_tot".
type Summary interface {
	Fields(family string) models.Fields
}

func round1(v float64) float64 {
	shift := math.Pow(10, roundPrecision)
	return math.Round(v*shift) / shift
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns nil when fewer than two samples exist.
func sampleStdDev(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	sd := round1(math.Sqrt(sum / float64(len(values)-1)))
	return &sd
}

func minMax(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func ptr(v float64) *float64 {
	return &v
}

// Field emission helpers: a nil value becomes the Absent sentinel, so
// one family always contributes the same field set.

func setFlag(f models.Fields, family string, flag models.Flag) {
	f[family+".ndati"] = flag.ValidCount
	wht := 0
	if flag.CoverageOK {
		wht = 1
	}
	f[family+".wht"] = wht
}

func setNum(f models.Fields, name string, v *float64) {
	if v == nil {
		f[name] = models.Absent
		return
	}
	f[name] = *v
}

func setDate(f models.Fields, name string, t *time.Time) {
	if t == nil {
		f[name] = models.Absent
		return
	}
	f[name] = t.Format(outputDateLayout)
}

// scalarValues extracts the values of all contributing records,
// enforcing the Scalar variant. The records slice returned is the
// contributing subset, aligned with the values.
func scalarValues(op string, records []models.DailyRecord) ([]float64, []models.DailyRecord, error) {
	var values []float64
	var contributing []models.DailyRecord
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		v, ok := r.ScalarValue()
		if !ok {
			return nil, nil, &models.PreconditionError{
				Op:     op,
				Detail: fmt.Sprintf("expected scalar daily value, got %T", r.Value),
			}
		}
		values = append(values, v)
		contributing = append(contributing, r)
	}
	return values, contributing, nil
}

// pairValues extracts the contributing Pair values; records whose pair
// misses either component are dropped, matching the source rows where
// one of the two coupled variables did not report.
func pairValues(op string, records []models.DailyRecord) ([]models.Pair, error) {
	var pairs []models.Pair
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		p, ok := r.PairValue()
		if !ok {
			return nil, &models.PreconditionError{
				Op:     op,
				Detail: fmt.Sprintf("expected pair daily value, got %T", r.Value),
			}
		}
		if p.First == nil || p.Second == nil {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// compositeValues extracts contributing Composite values of the given
// arity.
func compositeValues(op string, records []models.DailyRecord, arity int) ([]models.Composite, error) {
	var composites []models.Composite
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		c, ok := r.CompositeValue()
		if !ok || len(c) != arity {
			return nil, &models.PreconditionError{
				Op:     op,
				Detail: fmt.Sprintf("expected %d-component composite daily value, got %T", arity, r.Value),
			}
		}
		composites = append(composites, c)
	}
	return composites, nil
}

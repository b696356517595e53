package aggregate

import (
	"fmt"
	"sort"
	"time"

	"climate-feed/internal/models"
)

// A day is dry when its accumulated precipitation does not exceed this
// many millimetres.
const dryDayThreshold = 1.0

// runsReported is the number of longest runs reported per class.
const runsReported = 3

// PrecipTotalSummary reports the period precipitation accumulation and
// the wettest day.
type PrecipTotalSummary struct {
	Flag    models.Flag
	Total   *float64
	Max     *float64
	MaxDate *time.Time
}

func (s *PrecipTotalSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_tot", s.Total)
	setNum(f, family+".val_mx", s.Max)
	setDate(f, family+".data_mx", s.MaxDate)
	return f
}

// PrecipTotal aggregates daily accumulated precipitation: period
// total, maximum daily value and the date it occurred.
func PrecipTotal(records []models.DailyRecord, numExpected int, minCoverage float64) (*PrecipTotalSummary, error) {
	values, contributing, err := scalarValues("precipitation aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	maxIdx := 0
	for i, v := range values {
		if v > values[maxIdx] {
			maxIdx = i
		}
	}
	maxDate := contributing[maxIdx].Date
	return &PrecipTotalSummary{
		Flag:    ComputeFlag(records, minCoverage, numExpected),
		Total:   ptr(round1(sum(values))),
		Max:     ptr(round1(values[maxIdx])),
		MaxDate: &maxDate,
	}, nil
}

// PrecipShortMaxSummary reports the maximum short-interval
// accumulation (1, 6 or 12 hours, already reduced to one daily value)
// and its date.
type PrecipShortMaxSummary struct {
	Flag    models.Flag
	Max     *float64
	MaxDate *time.Time
}

func (s *PrecipShortMaxSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_mx", s.Max)
	setDate(f, family+".data_mx", s.MaxDate)
	return f
}

// PrecipShortMax aggregates the daily maxima of short-interval
// precipitation accumulations.
func PrecipShortMax(records []models.DailyRecord, numExpected int, minCoverage float64) (*PrecipShortMaxSummary, error) {
	values, contributing, err := scalarValues("short precipitation aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	maxIdx := 0
	for i, v := range values {
		if v > values[maxIdx] {
			maxIdx = i
		}
	}
	maxDate := contributing[maxIdx].Date
	return &PrecipShortMaxSummary{
		Flag:    ComputeFlag(records, minCoverage, numExpected),
		Max:     ptr(round1(values[maxIdx])),
		MaxDate: &maxDate,
	}, nil
}

var precipClassNames = [...]string{".dry", ".wet_01", ".wet_02", ".wet_03", ".wet_04", ".wet_05"}

// PrecipClassesSummary counts days per precipitation class. The
// classification family carries no coverage flag: counts are reported
// unconditionally.
type PrecipClassesSummary struct {
	Counts [len(precipClassNames)]int
}

func (s *PrecipClassesSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	for i, n := range precipClassNames {
		f[family+n] = s.Counts[i]
	}
	return f
}

// precipClass maps a daily accumulation to its class index:
// dry <= 1 < wet_01 <= 5 < wet_02 <= 10 < wet_03 <= 20 < wet_04 <= 50 < wet_05.
func precipClass(v float64) int {
	switch {
	case v <= 1:
		return 0
	case v <= 5:
		return 1
	case v <= 10:
		return 2
	case v <= 20:
		return 3
	case v <= 50:
		return 4
	default:
		return 5
	}
}

// PrecipClassVector builds the one-hot daily class-count vector of a
// short-interval accumulation, the input shape of PrecipShortClasses.
func PrecipClassVector(v float64) models.Vector {
	vec := make(models.Vector, len(precipClassNames))
	vec[precipClass(v)] = 1
	return vec
}

// PrecipClasses partitions the contributing days into the six
// precipitation classes. Every contributing day lands in exactly one
// class.
func PrecipClasses(records []models.DailyRecord, _ int, _ float64) (*PrecipClassesSummary, error) {
	values, _, err := scalarValues("precipitation classification", records)
	if err != nil {
		return nil, err
	}
	summary := &PrecipClassesSummary{}
	for _, v := range values {
		summary.Counts[precipClass(v)]++
	}
	return summary, nil
}

// PrecipShortClassesSummary sums the per-day class-count vectors of
// short-interval precipitation. No flag, like the other
// classification outputs.
type PrecipShortClassesSummary struct {
	Counts [len(precipClassNames)]float64
}

func (s *PrecipShortClassesSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	for i, n := range precipClassNames {
		f[family+n] = s.Counts[i]
	}
	return f
}

// PrecipShortClasses sums six-cell daily class-count vectors
// element-wise across contributing days.
func PrecipShortClasses(records []models.DailyRecord, _ int, _ float64) (*PrecipShortClassesSummary, error) {
	summary := &PrecipShortClassesSummary{}
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		v, ok := r.VectorValue()
		if !ok || len(v) != len(precipClassNames) {
			return nil, &models.PreconditionError{
				Op:     "short precipitation classification",
				Detail: fmt.Sprintf("expected %d-cell class vector, got %T", len(precipClassNames), r.Value),
			}
		}
		for i, c := range v {
			summary.Counts[i] += c
		}
	}
	return summary, nil
}

// PrecipRun is one maximal consecutive sequence of contributing days
// sharing the dry (or wet) condition.
type PrecipRun struct {
	Length int
	Start  time.Time
	Total  float64 // accumulation over the run, reported for wet runs
}

// PrecipPersistenceSummary reports the three longest dry and wet runs
// of the period, longest first. Runs of equal length keep their
// chronological order.
type PrecipPersistenceSummary struct {
	Flag models.Flag
	Dry  []PrecipRun
	Wet  []PrecipRun
}

func (s *PrecipPersistenceSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	for i := 0; i < runsReported; i++ {
		rank := fmt.Sprintf("_%02d", i+1)
		if i < len(s.Dry) {
			f[family+".ndry"+rank] = s.Dry[i].Length
			setDate(f, family+".datadry"+rank, &s.Dry[i].Start)
		} else {
			f[family+".ndry"+rank] = models.Absent
			f[family+".datadry"+rank] = models.Absent
		}
		if i < len(s.Wet) {
			f[family+".nwet"+rank] = s.Wet[i].Length
			f[family+".totwet"+rank] = round1(s.Wet[i].Total)
			setDate(f, family+".datawet"+rank, &s.Wet[i].Start)
		} else {
			f[family+".nwet"+rank] = models.Absent
			f[family+".totwet"+rank] = models.Absent
			f[family+".datawet"+rank] = models.Absent
		}
	}
	return f
}

// PrecipPersistence detects dry and wet persistence runs over the
// chronologically ordered contributing days of a period, and reports
// the three longest of each class.
func PrecipPersistence(records []models.DailyRecord, numExpected int, minCoverage float64) (*PrecipPersistenceSummary, error) {
	values, contributing, err := scalarValues("precipitation persistence", records)
	if err != nil {
		return nil, err
	}
	summary := &PrecipPersistenceSummary{
		Flag: ComputeFlag(records, minCoverage, numExpected),
	}
	var dryRuns, wetRuns []PrecipRun
	for start := 0; start < len(values); {
		dry := values[start] <= dryDayThreshold
		end := start + 1
		total := values[start]
		for end < len(values) && (values[end] <= dryDayThreshold) == dry {
			total += values[end]
			end++
		}
		run := PrecipRun{
			Length: end - start,
			Start:  contributing[start].Date,
			Total:  total,
		}
		if dry {
			dryRuns = append(dryRuns, run)
		} else {
			wetRuns = append(wetRuns, run)
		}
		start = end
	}
	sort.SliceStable(dryRuns, func(i, j int) bool { return dryRuns[i].Length > dryRuns[j].Length })
	sort.SliceStable(wetRuns, func(i, j int) bool { return wetRuns[i].Length > wetRuns[j].Length })
	summary.Dry = topRuns(dryRuns)
	summary.Wet = topRuns(wetRuns)
	return summary, nil
}

func topRuns(runs []PrecipRun) []PrecipRun {
	if len(runs) > runsReported {
		return runs[:runsReported]
	}
	return runs
}

package aggregate

import (
	"fmt"
	"time"

	"climate-feed/internal/models"
)

// Day-count thresholds of the classic climatological temperature
// indices, in degrees.
const (
	frostThreshold    = 0.0  // Tmin below
	iceThreshold      = 0.0  // Tmax below
	summerThreshold   = 25.0 // Tmax above
	tropicalThreshold = 20.0 // Tmin above
)

// TemperatureSummary reports mean, deviation and the period extremum
// with the date it occurred. Extremum fields stay nil for the mean
// temperature family, which has no extremum of its own.
type TemperatureSummary struct {
	Flag        models.Flag
	Mean        *float64
	StdDev      *float64
	Extreme     *float64
	ExtremeDate *time.Time
}

func (s *TemperatureSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_md", s.Mean)
	setNum(f, family+".val_vr", s.StdDev)
	if s.Extreme != nil || s.ExtremeDate != nil {
		setNum(f, family+".val_x", s.Extreme)
		setDate(f, family+".data_x", s.ExtremeDate)
	}
	return f
}

// temperatureStats aggregates a scalar temperature series, locating
// the extremum chosen by pickMax. Temperature periods use the
// seasonal-balance flag variant.
func temperatureStats(op string, records []models.DailyRecord, numExpected int, minCoverage float64, pickMax bool) (*TemperatureSummary, error) {
	values, contributing, err := scalarValues(op, records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	extIdx := 0
	for i, v := range values {
		if (pickMax && v > values[extIdx]) || (!pickMax && v < values[extIdx]) {
			extIdx = i
		}
	}
	extremeDate := contributing[extIdx].Date
	return &TemperatureSummary{
		Flag:        ComputeTempFlag(records, minCoverage, numExpected),
		Mean:        ptr(round1(mean(values))),
		StdDev:      sampleStdDev(values),
		Extreme:     ptr(round1(values[extIdx])),
		ExtremeDate: &extremeDate,
	}, nil
}

// MaxTemperature aggregates daily maximum temperature: mean,
// deviation, and the period maximum with its date.
func MaxTemperature(records []models.DailyRecord, numExpected int, minCoverage float64) (*TemperatureSummary, error) {
	return temperatureStats("max temperature aggregation", records, numExpected, minCoverage, true)
}

// MinTemperature aggregates daily minimum temperature: mean,
// deviation, and the period minimum with its date.
func MinTemperature(records []models.DailyRecord, numExpected int, minCoverage float64) (*TemperatureSummary, error) {
	return temperatureStats("min temperature aggregation", records, numExpected, minCoverage, false)
}

// MeanTemperature aggregates daily mean temperature: mean and
// deviation only.
func MeanTemperature(records []models.DailyRecord, numExpected int, minCoverage float64) (*TemperatureSummary, error) {
	values, _, err := scalarValues("mean temperature aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &TemperatureSummary{
		Flag:   ComputeTempFlag(records, minCoverage, numExpected),
		Mean:   ptr(round1(mean(values))),
		StdDev: sampleStdDev(values),
	}, nil
}

// temperatureBands: 5-degree classification bands from -15 to 30.
var temperatureBandEdges = []float64{-15, -10, -5, 0, 5, 10, 15, 20, 25, 30}

// TemperatureClassesSummary counts days per 5-degree band, from
// "below -15" through "above 30". Classification outputs carry no
// coverage flag.
type TemperatureClassesSummary struct {
	Counts []int
}

func (s *TemperatureClassesSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	for i, c := range s.Counts {
		f[fmt.Sprintf("%s.cl_%02d", family, i+1)] = c
	}
	return f
}

// TemperatureClasses partitions the contributing days into the
// 5-degree temperature bands. Every contributing day lands in exactly
// one band.
func TemperatureClasses(records []models.DailyRecord, _ int, _ float64) (*TemperatureClassesSummary, error) {
	values, _, err := scalarValues("temperature classification", records)
	if err != nil {
		return nil, err
	}
	summary := &TemperatureClassesSummary{Counts: make([]int, len(temperatureBandEdges)+1)}
	for _, v := range values {
		band := len(temperatureBandEdges)
		for i, edge := range temperatureBandEdges {
			if v <= edge {
				band = i
				break
			}
		}
		summary.Counts[band]++
	}
	return summary, nil
}

// countScalarDays counts contributing days satisfying a predicate on
// a scalar temperature series, with the seasonal-balance flag.
func countScalarDays(op string, records []models.DailyRecord, numExpected int, minCoverage float64, predicate func(v float64) bool) (*CountSummary, error) {
	values, _, err := scalarValues(op, records)
	if err != nil {
		return nil, err
	}
	summary := &CountSummary{Flag: ComputeTempFlag(records, minCoverage, numExpected)}
	for _, v := range values {
		if predicate(v) {
			summary.Count++
		}
	}
	return summary, nil
}

// FrostDays counts days with minimum temperature below 0. Wire to the
// Tmin series.
func FrostDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countScalarDays("frost days", records, numExpected, minCoverage,
		func(v float64) bool { return v < frostThreshold })
}

// IceDays counts days with maximum temperature below 0. Wire to the
// Tmax series.
func IceDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countScalarDays("ice days", records, numExpected, minCoverage,
		func(v float64) bool { return v < iceThreshold })
}

// SummerDays counts days with maximum temperature above 25. Wire to
// the Tmax series.
func SummerDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countScalarDays("summer days", records, numExpected, minCoverage,
		func(v float64) bool { return v > summerThreshold })
}

// TropicalNights counts days with minimum temperature above 20. Wire
// to the Tmin series.
func TropicalNights(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countScalarDays("tropical nights", records, numExpected, minCoverage,
		func(v float64) bool { return v > tropicalThreshold })
}

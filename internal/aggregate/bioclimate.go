package aggregate

import (
	"climate-feed/internal/models"
)

// Bioclimatic thresholds on daily mean temperature (degrees) and
// relative humidity (percent).
const (
	coldTempThreshold = 5.0
	heatTempThreshold = 25.0
	dryRHThreshold    = 40.0
	humidRHThreshold  = 90.0
)

// CountSummary is the output of the counting family: the number of
// days satisfying the function's predicate, gated by the coverage
// flag.
type CountSummary struct {
	Flag  models.Flag
	Count int
}

func (s *CountSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	f[family+".num"] = s.Count
	return f
}

// countPairDays counts the contributing (temperature, humidity) days
// satisfying the predicate.
func countPairDays(op string, records []models.DailyRecord, numExpected int, minCoverage float64, predicate func(temp, rh float64) bool) (*CountSummary, error) {
	pairs, err := pairValues(op, records)
	if err != nil {
		return nil, err
	}
	summary := &CountSummary{Flag: ComputeFlag(records, minCoverage, numExpected)}
	for _, p := range pairs {
		if predicate(*p.First, *p.Second) {
			summary.Count++
		}
	}
	return summary, nil
}

// DryColdDays counts cold dry days (mean temperature below 5, RH
// below 40).
func DryColdDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countPairDays("dry cold index", records, numExpected, minCoverage,
		func(temp, rh float64) bool { return temp < coldTempThreshold && rh < dryRHThreshold })
}

// HumidColdDays counts cold humid days (mean temperature below 5, RH
// above 90).
func HumidColdDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countPairDays("humid cold index", records, numExpected, minCoverage,
		func(temp, rh float64) bool { return temp < coldTempThreshold && rh > humidRHThreshold })
}

// DryHeatDays counts hot dry days (mean temperature above 25, RH
// below 40).
func DryHeatDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countPairDays("dry heat index", records, numExpected, minCoverage,
		func(temp, rh float64) bool { return temp > heatTempThreshold && rh < dryRHThreshold })
}

// HumidHeatDays counts hot humid days (mean temperature above 25, RH
// above 90).
func HumidHeatDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*CountSummary, error) {
	return countPairDays("humid heat index", records, numExpected, minCoverage,
		func(temp, rh float64) bool { return temp > heatTempThreshold && rh > humidRHThreshold })
}

// ExcessBandSummary counts the days whose temperature exceeds an
// RH-dependent critical temperature by more than 0, 1 and 2 degrees
// respectively.
type ExcessBandSummary struct {
	Flag  models.Flag
	Bands [3]int
}

func (s *ExcessBandSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	f[family+".num_01"] = s.Bands[0]
	f[family+".num_02"] = s.Bands[1]
	f[family+".num_03"] = s.Bands[2]
	return f
}

// countExcessBands classifies each contributing (temperature, RH) day
// by the critical temperature of its humidity band and counts the
// days exceeding it by more than 0, 1 and 2 degrees.
func countExcessBands(op string, records []models.DailyRecord, numExpected int, minCoverage float64, criticalTemp func(rh float64) float64) (*ExcessBandSummary, error) {
	pairs, err := pairValues(op, records)
	if err != nil {
		return nil, err
	}
	summary := &ExcessBandSummary{Flag: ComputeFlag(records, minCoverage, numExpected)}
	for _, p := range pairs {
		excess := *p.First - criticalTemp(*p.Second)
		if excess > 0 {
			summary.Bands[0]++
		}
		if excess > 1 {
			summary.Bands[1]++
		}
		if excess > 2 {
			summary.Bands[2]++
		}
	}
	return summary, nil
}

// scharlauCriticalTemp is the Scharlau heat-discomfort critical
// temperature per 5-point relative humidity band.
func scharlauCriticalTemp(rh float64) float64 {
	switch {
	case rh <= 57.5:
		return 26.2
	case rh <= 62.5:
		return 24.8
	case rh <= 67.5:
		return 23.4
	case rh <= 72.5:
		return 22.2
	case rh <= 77.5:
		return 21.1
	case rh <= 82.5:
		return 20.1
	case rh <= 87.5:
		return 19.1
	case rh <= 92.5:
		return 18.2
	case rh <= 97.5:
		return 17.3
	default:
		return 16.5
	}
}

// humidColdCriticalTemp is the cold-discomfort critical temperature
// per relative humidity band.
func humidColdCriticalTemp(rh float64) float64 {
	switch {
	case rh <= 42.5:
		return -2.5
	case rh <= 47.5:
		return -1.5
	case rh <= 52.5:
		return -0.5
	case rh <= 57.5:
		return -0.3
	case rh <= 62.5:
		return 0
	case rh <= 67.5:
		return 0.5
	case rh <= 72.5:
		return 1.5
	case rh <= 77.5:
		return 1.8
	case rh <= 82.5:
		return 2.2
	case rh <= 87.5:
		return 2.8
	default:
		return 3.5
	}
}

// ScharlauIndex counts heat-discomfort days against the Scharlau
// critical temperature bands.
func ScharlauIndex(records []models.DailyRecord, numExpected int, minCoverage float64) (*ExcessBandSummary, error) {
	return countExcessBands("scharlau index", records, numExpected, minCoverage, scharlauCriticalTemp)
}

// HumidColdIndex counts cold-discomfort days against the humid-cold
// critical temperature bands.
func HumidColdIndex(records []models.DailyRecord, numExpected int, minCoverage float64) (*ExcessBandSummary, error) {
	return countExcessBands("humid cold excess index", records, numExpected, minCoverage, humidColdCriticalTemp)
}

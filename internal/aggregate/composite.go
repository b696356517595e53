package aggregate

import (
	"climate-feed/internal/models"
)

// Component layout of the composite daily values consumed here. The
// readers and the daily preparation step build these in the same order.
const (
	degreeDayComponents = 5 // bases 0, 5, 10, 15, 21 degrees

	pressureComponents = 3 // daily mean, daily max, daily min
	pressureMean       = 0
	pressureMax        = 1
	pressureMin        = 2

	humidityComponents = 4 // daily mean, daily stddev, daily max, daily min
	humidityMean       = 0
	humidityMax        = 2
	humidityMin        = 3
)

// DegreeDaysSummary carries the period mean of each degree-day base.
type DegreeDaysSummary struct {
	Flag  models.Flag
	Bases [degreeDayComponents]*float64
}

func (s *DegreeDaysSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	names := []string{".tot00", ".tot05", ".tot10", ".tot15", ".tot21"}
	for i, n := range names {
		setNum(f, family+n, s.Bases[i])
	}
	return f
}

// Bases of the daily degree-day components, in component order.
var degreeDayBases = [degreeDayComponents]float64{0, 5, 10, 15, 21}

// DegreeDayComposite derives the daily degree-day components from the
// daily mean temperature: distance above each base, floored at zero.
func DegreeDayComposite(meanTemp float64) models.Composite {
	c := make(models.Composite, degreeDayComponents)
	for i, base := range degreeDayBases {
		v := meanTemp - base
		if v < 0 {
			v = 0
		}
		c[i] = ptr(v)
	}
	return c
}

// DegreeDays aggregates the five daily degree-day sums (bases 0, 5,
// 10, 15 and 21 degrees), averaging each base independently over the
// days where it is present.
func DegreeDays(records []models.DailyRecord, numExpected int, minCoverage float64) (*DegreeDaysSummary, error) {
	composites, err := compositeValues("degree days aggregation", records, degreeDayComponents)
	if err != nil {
		return nil, err
	}
	if len(composites) == 0 {
		return nil, nil
	}
	summary := &DegreeDaysSummary{Flag: ComputeFlag(records, minCoverage, numExpected)}
	for base := 0; base < degreeDayComponents; base++ {
		var values []float64
		for _, c := range composites {
			if c[base] != nil {
				values = append(values, *c[base])
			}
		}
		if len(values) > 0 {
			summary.Bases[base] = ptr(round1(mean(values)))
		}
	}
	return summary, nil
}

// Pressure aggregates daily atmospheric pressure composites
// (mean, max, min). The period mean and deviation come from the daily
// means; the extremes prefer the recorded daily max/min series and
// fall back to the extremes of the daily means when those series are
// empty.
func Pressure(records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	composites, err := compositeValues("pressure aggregation", records, pressureComponents)
	if err != nil {
		return nil, err
	}
	means := componentValues(composites, pressureMean)
	maxes := componentValues(composites, pressureMax)
	mins := componentValues(composites, pressureMin)
	if len(means) == 0 && len(maxes) == 0 && len(mins) == 0 {
		return nil, nil
	}
	summary := &CentralSummary{Flag: ComputeFlag(records, minCoverage, numExpected)}
	if len(means) > 0 {
		mn, mx := minMax(means)
		summary.Mean = ptr(round1(mean(means)))
		summary.StdDev = sampleStdDev(means)
		summary.Max = ptr(round1(mx))
		summary.Min = ptr(round1(mn))
	}
	if len(maxes) > 0 {
		_, mx := minMax(maxes)
		summary.Max = ptr(round1(mx))
	}
	if len(mins) > 0 {
		mn, _ := minMax(mins)
		summary.Min = ptr(round1(mn))
	}
	return summary, nil
}

// RelativeHumidity aggregates daily relative humidity composites
// (mean, stddev, max, min): period mean and deviation over the daily
// means, extremes over the daily extreme series.
func RelativeHumidity(records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	composites, err := compositeValues("relative humidity aggregation", records, humidityComponents)
	if err != nil {
		return nil, err
	}
	means := componentValues(composites, humidityMean)
	maxes := componentValues(composites, humidityMax)
	mins := componentValues(composites, humidityMin)
	if len(means) == 0 && len(maxes) == 0 && len(mins) == 0 {
		return nil, nil
	}
	summary := &CentralSummary{Flag: ComputeFlag(records, minCoverage, numExpected)}
	if len(means) > 0 {
		summary.Mean = ptr(round1(mean(means)))
		summary.StdDev = sampleStdDev(means)
	}
	if len(maxes) > 0 {
		_, mx := minMax(maxes)
		summary.Max = ptr(round1(mx))
	}
	if len(mins) > 0 {
		mn, _ := minMax(mins)
		summary.Min = ptr(round1(mn))
	}
	return summary, nil
}

// componentValues collects the non-nil values of one composite
// component across all contributing days.
func componentValues(composites []models.Composite, idx int) []float64 {
	var values []float64
	for _, c := range composites {
		if c[idx] != nil {
			values = append(values, *c[idx])
		}
	}
	return values
}

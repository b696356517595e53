package aggregate

import (
	"climate-feed/internal/models"
)

// CentralSummary is the shared mean/variance/extremes block of the
// central-tendency family. StdDev is nil below two samples; Max and
// Min are nil for families that do not report extremes.
type CentralSummary struct {
	Flag   models.Flag
	Mean   *float64
	StdDev *float64
	Max    *float64
	Min    *float64
}

// Fields flattens the summary under the family name.
func (s *CentralSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_md", s.Mean)
	setNum(f, family+".val_vr", s.StdDev)
	setNum(f, family+".val_mx", s.Max)
	setNum(f, family+".val_mn", s.Min)
	return f
}

// centralScalar computes flag, rounded mean, sample standard deviation
// and extremes over the contributing scalar values of a period. It
// returns nil when no valid sample exists; the numeric results are
// otherwise reported regardless of the flag's coverage outcome.
func centralScalar(op string, records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	values, _, err := scalarValues(op, records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	min, max := minMax(values)
	return &CentralSummary{
		Flag:   ComputeFlag(records, minCoverage, numExpected),
		Mean:   ptr(round1(mean(values))),
		StdDev: sampleStdDev(values),
		Max:    ptr(round1(max)),
		Min:    ptr(round1(min)),
	}, nil
}

// HydroBalance aggregates the daily hydrological balance
// (precipitation minus potential evapotranspiration).
func HydroBalance(records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	return centralScalar("hydro balance aggregation", records, numExpected, minCoverage)
}

// Evapotranspiration aggregates daily potential evapotranspiration.
func Evapotranspiration(records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	return centralScalar("evapotranspiration aggregation", records, numExpected, minCoverage)
}

// GlobalRadiation aggregates daily global solar radiation.
func GlobalRadiation(records []models.DailyRecord, numExpected int, minCoverage float64) (*CentralSummary, error) {
	return centralScalar("global radiation aggregation", records, numExpected, minCoverage)
}

// LeafWetnessSummary reports both the period total and the daily mean
// of leaf wetness duration, with extremes.
type LeafWetnessSummary struct {
	Flag   models.Flag
	Total  *float64
	StdDev *float64
	Max    *float64
	Min    *float64
	Mean   *float64
}

func (s *LeafWetnessSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_md", s.Total)
	setNum(f, family+".val_vr", s.StdDev)
	setNum(f, family+".val_mx", s.Max)
	setNum(f, family+".val_mn", s.Min)
	setNum(f, family+".val_tot", s.Mean)
	return f
}

// LeafWetness aggregates daily leaf wetness duration.
func LeafWetness(records []models.DailyRecord, numExpected int, minCoverage float64) (*LeafWetnessSummary, error) {
	values, _, err := scalarValues("leaf wetness aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	min, max := minMax(values)
	return &LeafWetnessSummary{
		Flag:   ComputeFlag(records, minCoverage, numExpected),
		Total:  ptr(round1(sum(values))),
		StdDev: sampleStdDev(values),
		Max:    ptr(round1(max)),
		Min:    ptr(round1(min)),
		Mean:   ptr(round1(mean(values))),
	}, nil
}

// SunshineSummary reports the period total of sunshine duration.
type SunshineSummary struct {
	Flag   models.Flag
	Total  *float64
	StdDev *float64
}

func (s *SunshineSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".val_md", s.Total)
	setNum(f, family+".val_vr", s.StdDev)
	return f
}

// Sunshine aggregates daily sunshine duration (heliophany).
func Sunshine(records []models.DailyRecord, numExpected int, minCoverage float64) (*SunshineSummary, error) {
	values, _, err := scalarValues("sunshine aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &SunshineSummary{
		Flag:   ComputeFlag(records, minCoverage, numExpected),
		Total:  ptr(round1(sum(values))),
		StdDev: sampleStdDev(values),
	}, nil
}

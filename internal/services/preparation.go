package services

import (
	"sort"
	"time"

	"climate-feed/internal/aggregate"
	"climate-feed/internal/models"
)

// Canonical variable codes recognized by the daily preparation step.
// Codes outside this set pass through the checks but feed no family.
const (
	codeTmax      = "Tmax"
	codeTmin      = "Tmin"
	codeTmean     = "Tmedia"
	codePrec      = "PREC"
	codePrec01    = "PREC01"
	codePrec06    = "PREC06"
	codePrec12    = "PREC12"
	codeWindSpeed = "FF"
	codeWindDir   = "DD"
	codeRHMean    = "UR media"
	codeRHMax     = "UR max"
	codeRHMin     = "UR min"
	codePress     = "P"
	codePressMax  = "Pmax"
	codePressMin  = "Pmin"
	codeWetness   = "Bagnatura Fogliare"
	codeSunshine  = "INSOL"
	codeRadiation = "RADSOL"
	codeEvapot    = "ETP"
	codeBalance   = "DELTA_IDRO"
)

// FamilySeries couples one prepared daily series with the aggregation
// functions that consume it.
type FamilySeries struct {
	Funcs   []aggregate.Func
	Records []models.DailyRecord
}

// stationDay is one station-day of checked measurements, keyed by
// variable code. Duplicate codes on one day keep the last row.
type stationDay struct {
	date time.Time
	rows map[string]models.Measurement
}

// BuildDailySeries turns one station's checked canonical records into
// the per-family daily series the aggregation engine consumes:
// scalars per code, (speed, direction) and (mean temp, humidity)
// pairs, humidity and pressure composites, degree-day components, and
// the one-hot classification vectors of wind and short precipitation.
// The emitted series are in ascending date order, as the period
// grouper requires.
func BuildDailySeries(station models.Station, measurements []models.Measurement) []FamilySeries {
	days := groupDays(measurements)

	var out []FamilySeries
	add := func(funcs []aggregate.Func, records []models.DailyRecord) {
		if len(records) > 0 {
			out = append(out, FamilySeries{Funcs: funcs, Records: records})
		}
	}

	add(maxTemperatureFuncs(), scalarSeries(station, days, codeTmax))
	add(minTemperatureFuncs(), scalarSeries(station, days, codeTmin))
	add(meanTemperatureFuncs(), scalarSeries(station, days, codeTmean))
	add(degreeDayFuncs(), degreeDaySeries(station, days))

	add(dailyPrecipFuncs(), scalarSeries(station, days, codePrec))
	add(shortPrecipFuncs("prec01"), scalarSeries(station, days, codePrec01))
	add(shortPrecipFuncs("prec06"), scalarSeries(station, days, codePrec06))
	add(shortPrecipFuncs("prec12"), scalarSeries(station, days, codePrec12))
	add(shortPrecipClassFuncs("cl_prec06"), precipClassSeries(station, days, codePrec06))
	add(shortPrecipClassFuncs("cl_prec12"), precipClassSeries(station, days, codePrec12))

	add(windMeanFuncs(), scalarSeries(station, days, codeWindSpeed))
	add(windGustFuncs(), pairSeries(station, days, codeWindSpeed, codeWindDir))
	add(windFrequencyFuncs(), windGridSeries(station, days))

	add(humidityFuncs(), humiditySeries(station, days))
	add(bioclimateFuncs(), pairSeries(station, days, codeTmean, codeRHMean))
	add(pressureFuncs(), pressureSeries(station, days))

	add(scalarFuncs("bagna", aggregate.Adapt(aggregate.LeafWetness)), scalarSeries(station, days, codeWetness))
	add(scalarFuncs("elio", aggregate.Adapt(aggregate.Sunshine)), scalarSeries(station, days, codeSunshine))
	add(scalarFuncs("radglob", aggregate.Adapt(aggregate.GlobalRadiation)), scalarSeries(station, days, codeRadiation))
	add(scalarFuncs("etp", aggregate.Adapt(aggregate.Evapotranspiration)), scalarSeries(station, days, codeEvapot))
	add(scalarFuncs("bilancio", aggregate.Adapt(aggregate.HydroBalance)), scalarSeries(station, days, codeBalance))

	return out
}

// groupDays buckets measurements by calendar day, ascending.
func groupDays(measurements []models.Measurement) []stationDay {
	byDate := make(map[time.Time]*stationDay)
	for _, m := range measurements {
		day := time.Date(m.Time.Year(), m.Time.Month(), m.Time.Day(), 0, 0, 0, 0, time.UTC)
		d, ok := byDate[day]
		if !ok {
			d = &stationDay{date: day, rows: make(map[string]models.Measurement)}
			byDate[day] = d
		}
		d.rows[m.Code] = m
	}

	days := make([]stationDay, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}

// scalarSeries extracts one code's daily scalar series. Days without
// the code yield no record; days with a missing value keep a record
// with a nil value so coverage sees them as non-contributing.
func scalarSeries(station models.Station, days []stationDay, code string) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		m, ok := d.rows[code]
		if !ok {
			continue
		}
		rec := models.DailyRecord{Station: station, Date: d.date, Valid: m.Valid}
		if m.Value != nil {
			rec.Value = models.Scalar(*m.Value)
		}
		out = append(out, rec)
	}
	return out
}

// pairSeries builds (first, second) daily pairs from two codes. A day
// enters the series when both codes are present; either component may
// still be nil. The day is valid only when both rows are.
func pairSeries(station models.Station, days []stationDay, firstCode, secondCode string) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		first, okFirst := d.rows[firstCode]
		second, okSecond := d.rows[secondCode]
		if !okFirst || !okSecond {
			continue
		}
		out = append(out, models.DailyRecord{
			Station: station,
			Date:    d.date,
			Value:   models.Pair{First: first.Value, Second: second.Value},
			Valid:   first.Valid && second.Valid,
		})
	}
	return out
}

// degreeDaySeries derives the five degree-day components of each day
// from the daily mean temperature.
func degreeDaySeries(station models.Station, days []stationDay) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		m, ok := d.rows[codeTmean]
		if !ok {
			continue
		}
		rec := models.DailyRecord{Station: station, Date: d.date, Valid: m.Valid}
		if m.Value != nil {
			rec.Value = aggregate.DegreeDayComposite(*m.Value)
		}
		out = append(out, rec)
	}
	return out
}

// humiditySeries assembles the four-component daily humidity
// composite (mean, source deviation, max, min). The source deviation
// is not derivable from daily rows and stays absent.
func humiditySeries(station models.Station, days []stationDay) []models.DailyRecord {
	return compositeSeries(station, days, codeRHMean,
		[]string{codeRHMean, "", codeRHMax, codeRHMin})
}

// pressureSeries assembles the three-component daily pressure
// composite (mean, max, min).
func pressureSeries(station models.Station, days []stationDay) []models.DailyRecord {
	return compositeSeries(station, days, codePress,
		[]string{codePress, codePressMax, codePressMin})
}

// compositeSeries builds composite daily values from the listed codes
// in component order; an empty code leaves its component absent. The
// anchor code gates day membership and validity.
func compositeSeries(station models.Station, days []stationDay, anchorCode string, codes []string) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		anchor, ok := d.rows[anchorCode]
		if !ok {
			continue
		}
		composite := make(models.Composite, len(codes))
		for i, code := range codes {
			if code == "" {
				continue
			}
			if m, ok := d.rows[code]; ok && m.Valid {
				composite[i] = m.Value
			}
		}
		out = append(out, models.DailyRecord{
			Station: station,
			Date:    d.date,
			Value:   composite,
			Valid:   anchor.Valid,
		})
	}
	return out
}

// precipClassSeries maps one short-interval precipitation code to its
// daily one-hot class vectors.
func precipClassSeries(station models.Station, days []stationDay, code string) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		m, ok := d.rows[code]
		if !ok {
			continue
		}
		rec := models.DailyRecord{Station: station, Date: d.date, Valid: m.Valid}
		if m.Value != nil {
			rec.Value = aggregate.PrecipClassVector(*m.Value)
		}
		out = append(out, rec)
	}
	return out
}

// windGridSeries maps daily (speed, direction) rows to one-hot
// frequency vectors on the standard grid. A day missing its direction
// can still land in the calm cell.
func windGridSeries(station models.Station, days []stationDay) []models.DailyRecord {
	var out []models.DailyRecord
	for _, d := range days {
		speed, ok := d.rows[codeWindSpeed]
		if !ok {
			continue
		}
		rec := models.DailyRecord{Station: station, Date: d.date, Valid: speed.Valid}
		if speed.Value != nil {
			direction := 0.0
			if dir, ok := d.rows[codeWindDir]; ok && dir.Value != nil {
				direction = *dir.Value
				rec.Valid = rec.Valid && dir.Valid
			} else if *speed.Value >= aggregate.WindCalmLimit {
				// no direction to classify a non-calm day under
				out = append(out, models.DailyRecord{Station: station, Date: d.date, Valid: false})
				continue
			}
			rec.Value = aggregate.WindGridVector(*speed.Value, direction)
		}
		out = append(out, rec)
	}
	return out
}

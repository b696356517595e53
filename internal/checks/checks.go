// Package checks implements the two value-level quality checks every
// station format funnels its records through: the weak climatologic
// (static range) check and the internal consistency check against
// bounding variables of the same observation row.
//
// Both checks are purely functional: they return updated copies of
// their input together with the list of human-readable findings, and
// never abort on bad data. A finding only flips the validity flag of
// the offending value.
package checks

import (
	"fmt"

	"climate-feed/internal/models"
)

// RangeCheck applies the weak climatologic check to a sequence of
// canonical measurements. A measurement is examined only when its code
// has a threshold entry, it is currently valid and its value is
// present; anything else passes through untouched, with no message.
func RangeCheck(measurements []models.Measurement, thresholds models.ThresholdTable) ([]string, []models.Measurement) {
	var findings []string
	checked := make([]models.Measurement, len(measurements))
	for i, m := range measurements {
		checked[i] = m
		if !m.Valid || m.Value == nil {
			continue
		}
		th, ok := thresholds[m.Code]
		if !ok {
			continue
		}
		if *m.Value < th.Min || *m.Value > th.Max {
			checked[i].Valid = false
			findings = append(findings, fmt.Sprintf(
				"value of %q is out of range [%v, %v]", m.Code, th.Min, th.Max))
		}
	}
	return findings, checked
}

// ConsistencyCheck applies the internal consistency check to a group
// of measurements sharing one observation instant (one "row"). For
// every dependent code with an entry in limits, the dependent value
// must lie inside the envelope of its two bounding values from the
// same row. Bounds with an absent or invalid value disable the check
// for that dependent; a bounding code that is not part of the row at
// all is a precondition violation.
//
// The envelope is normalized to [min(lo,hi), max(lo,hi)] so that a
// sensor fault producing an inverted bound pair still yields a
// meaningful interval.
func ConsistencyCheck(row []models.Measurement, limits models.LimitingParams) ([]string, []models.Measurement, error) {
	var findings []string
	checked := make([]models.Measurement, len(row))
	copy(checked, row)

	byCode := make(map[string]int, len(row))
	for i, m := range row {
		byCode[m.Code] = i
	}

	for i, m := range row {
		bounds, ok := limits[m.Code]
		if !ok || !m.Valid || m.Value == nil {
			continue
		}
		loIdx, loOK := byCode[bounds.Lower]
		hiIdx, hiOK := byCode[bounds.Upper]
		if !loOK || !hiOK {
			return nil, nil, &models.PreconditionError{
				Op: "consistency check",
				Detail: fmt.Sprintf("bounds (%q, %q) of %q are not part of the observation row",
					bounds.Lower, bounds.Upper, m.Code),
			}
		}
		lo, hi := row[loIdx], row[hiIdx]
		if !lo.Valid || lo.Value == nil || !hi.Valid || hi.Value == nil {
			continue
		}
		low, high := *lo.Value, *hi.Value
		if low > high {
			low, high = high, low
		}
		if *m.Value < low || *m.Value > high {
			checked[i].Valid = false
			findings = append(findings, fmt.Sprintf(
				"value of %q is not consistent with %q and %q", m.Code, bounds.Lower, bounds.Upper))
		}
	}
	return findings, checked, nil
}

// CheckSeries runs both checks over a chronologically ordered series
// of measurements, grouping consecutive records into observation rows
// by (station, instant) for the consistency stage. The range check is
// applied first, so a value discarded by it never participates as a
// consistency bound.
func CheckSeries(measurements []models.Measurement, thresholds models.ThresholdTable, limits models.LimitingParams) ([]string, []models.Measurement, error) {
	findings, checked := RangeCheck(measurements, thresholds)

	result := make([]models.Measurement, 0, len(checked))
	for start := 0; start < len(checked); {
		end := start + 1
		for end < len(checked) &&
			checked[end].Station.ID == checked[start].Station.ID &&
			checked[end].Time.Equal(checked[start].Time) {
			end++
		}
		rowFindings, row, err := ConsistencyCheck(checked[start:end], limits)
		if err != nil {
			return nil, nil, err
		}
		findings = append(findings, rowFindings...)
		result = append(result, row...)
		start = end
	}
	return findings, result, nil
}

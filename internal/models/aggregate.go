package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AggregationLevel identifies the temporal granularity of an
// aggregated record.
type AggregationLevel int

const (
	LevelDecade AggregationLevel = 1
	LevelMonth  AggregationLevel = 2
	LevelYear   AggregationLevel = 3
)

// String returns the archive label of the level.
func (l AggregationLevel) String() string {
	switch l {
	case LevelDecade:
		return "decade"
	case LevelMonth:
		return "month"
	case LevelYear:
		return "year"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseAggregationLevel maps an archive label back to its level.
func ParseAggregationLevel(s string) (AggregationLevel, error) {
	switch s {
	case "decade":
		return LevelDecade, nil
	case "month":
		return LevelMonth, nil
	case "year":
		return LevelYear, nil
	}
	return 0, fmt.Errorf("unknown aggregation level %q", s)
}

// PeriodKey identifies one aggregation bucket of one station. Date is
// the closing day of the period (day 10, day 20 or the last day of the
// month for decades; the last day of the month; December 31 for years).
type PeriodKey struct {
	StationID string           `json:"station_id"`
	Date      time.Time        `json:"period_date"`
	Level     AggregationLevel `json:"aggregation_level"`
}

// Flag is the data-completeness verdict attached to most aggregated
// summaries: how many days contributed, and whether that count clears
// the coverage fraction required for the period.
type Flag struct {
	ValidCount int  `json:"ndati"`
	CoverageOK bool `json:"wht"`
}

// Absent is the output sentinel for a summary field whose value could
// not be computed from the period's data.
const Absent = "absent"

// Fields is the flat field-name -> value mapping of an output record.
// Values are numbers, counts, ISO-ish date strings, or Absent.
type Fields map[string]any

// Merge copies the entries of other into f, overwriting same-named
// fields and leaving the rest untouched.
func (f Fields) Merge(other Fields) {
	for k, v := range other {
		f[k] = v
	}
}

// AllAbsent reports whether no field carries a usable value. Empty
// maps count as all-absent.
func (f Fields) AllAbsent() bool {
	for _, v := range f {
		if v != Absent {
			return false
		}
	}
	return true
}

// Value serializes the fields to JSONB for storage.
func (f Fields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan deserializes a JSONB column into the map.
func (f *Fields) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = nil
		return nil
	}
	return fmt.Errorf("cannot scan %T into Fields", src)
}

// AggregatedRecord is one output record handed to the persistence
// layer: the merged per-family summaries of one station and period.
type AggregatedRecord struct {
	StationID  string           `json:"station_id" db:"station_id"`
	PeriodDate time.Time        `json:"period_date" db:"period_date"`
	Level      AggregationLevel `json:"aggregation_level" db:"aggregation_level"`
	Fields     Fields           `json:"fields" db:"fields"`
}

// Key returns the record's period key.
func (r AggregatedRecord) Key() PeriodKey {
	return PeriodKey{StationID: r.StationID, Date: r.PeriodDate, Level: r.Level}
}

package models

import (
	"time"
)

// Station describes the station that produced a measurement.
// Latitude is required by the aggregation layer (seasonal checks);
// the remaining fields are carried through to the archive.
type Station struct {
	ID        string    `json:"station_id" db:"station_id"`
	Name      string    `json:"name,omitempty" db:"name"`
	Network   string    `json:"network,omitempty" db:"network"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude,omitempty" db:"longitude"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Measurement is the canonical record every format reader must emit.
// Value is nil when the source reported a missing-data marker.
// A record entering the checks has already passed structural validation:
// only the range and consistency checks may still flip Valid.
type Measurement struct {
	Station Station   `json:"station"`
	Time    time.Time `json:"time"`
	Code    string    `json:"code"`
	Value   *float64  `json:"value,omitempty"`
	Valid   bool      `json:"valid"`
}

// ThresholdTable maps a variable code to its inclusive [Min, Max] bounds.
// Loaded once by the caller, never mutated during a run. A code with no
// entry simply gets no range check.
type ThresholdTable map[string]Threshold

// Threshold holds the static bounds of the weak climatologic check.
type Threshold struct {
	Min float64
	Max float64
}

// LimitingParams maps a dependent variable code to the pair of codes
// bounding it from below and above within the same observation row
// (e.g. "Tmedia" -> {"Tmin", "Tmax"}).
type LimitingParams map[string]BoundingCodes

// BoundingCodes names the lower and upper bounding variables.
type BoundingCodes struct {
	Lower string
	Upper string
}

// ValidationError reports a value that failed structural validation
// inside a format reader.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}

// Package readers turns station-format payloads into the canonical
// measurement records consumed by the checks and the aggregation
// engine. Each supported format is one RecordReader implementation;
// the validation core never sees format-specific shapes.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"climate-feed/internal/models"
)

// RecordReader produces canonical measurement records from one input
// file. Implementations perform the structural (row) validation of
// their format and emit records sorted by timestamp; range and
// consistency checks happen downstream.
type RecordReader interface {
	// Label names the format, e.g. "dailyseries".
	Label() string
	// CanRead reports whether the file looks like this reader's format.
	CanRead(path string) bool
	// Read parses the file into canonical records.
	Read(path string) ([]models.Measurement, error)
}

// Registry holds the known format readers in guess order.
func Registry() []RecordReader {
	return []RecordReader{
		NewDailySeriesReader(),
		NewFixedDailyReader(),
		NewJSONExportReader(),
	}
}

// Guess picks the first registered reader claiming the file.
func Guess(path string) (RecordReader, error) {
	for _, r := range Registry() {
		if r.CanRead(path) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no reader recognizes %s", filepath.Base(path))
}

// ByLabel returns the reader registered under the label, or all known
// labels in the error when it does not exist.
func ByLabel(label string) (RecordReader, error) {
	var labels []string
	for _, r := range Registry() {
		if r.Label() == label {
			return r, nil
		}
		labels = append(labels, r.Label())
	}
	return nil, fmt.Errorf("unknown format %q (known: %s)", label, strings.Join(labels, ", "))
}

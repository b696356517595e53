package readers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"climate-feed/internal/models"
)

// jsonExportRow is the row shape of the JSON export format.
type jsonExportRow struct {
	StationID string   `json:"station_id"`
	Latitude  float64  `json:"latitude"`
	Date      string   `json:"date"`
	Code      string   `json:"code"`
	Value     *float64 `json:"value"`
}

// JSONExportReader reads the JSON export format: an array of
// per-variable daily rows with a null value as the missing marker.
type JSONExportReader struct{}

// NewJSONExportReader creates a JSON export reader.
func NewJSONExportReader() *JSONExportReader {
	return &JSONExportReader{}
}

// Label implements RecordReader.
func (r *JSONExportReader) Label() string { return "jsonexport" }

// CanRead claims .json files.
func (r *JSONExportReader) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Read parses the file into canonical records, sorted by date then
// code.
func (r *JSONExportReader) Read(path string) ([]models.Measurement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var rows []jsonExportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON export: %w", err)
	}

	measurements := make([]models.Measurement, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, &models.ValidationError{
				Field:   "date",
				Value:   row.Date,
				Message: "invalid date, expected YYYY-MM-DD",
			})
		}
		if row.StationID == "" {
			return nil, fmt.Errorf("row %d: %w", i, &models.ValidationError{
				Field:   "station_id",
				Message: "missing station identifier",
			})
		}
		measurements = append(measurements, models.Measurement{
			Station: models.Station{ID: row.StationID, Latitude: row.Latitude},
			Time:    date,
			Code:    row.Code,
			Value:   row.Value,
			Valid:   true,
		})
	}
	sort.SliceStable(measurements, func(i, j int) bool {
		if !measurements[i].Time.Equal(measurements[j].Time) {
			return measurements[i].Time.Before(measurements[j].Time)
		}
		return measurements[i].Code < measurements[j].Code
	})
	return measurements, nil
}

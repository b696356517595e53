package readers

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"climate-feed/internal/models"
)

// dailySeriesColumns is the column layout of the delimited per-variable
// series format: one row per (day, variable).
var dailySeriesColumns = []string{"station_id", "latitude", "date", "code", "value"}

const dailySeriesDateLayout = "2006-01-02"

// DailySeriesReader reads the delimited per-variable daily series
// format. An empty value column is the missing-data marker.
type DailySeriesReader struct{}

// NewDailySeriesReader creates a daily series reader.
func NewDailySeriesReader() *DailySeriesReader {
	return &DailySeriesReader{}
}

// Label implements RecordReader.
func (r *DailySeriesReader) Label() string { return "dailyseries" }

// CanRead claims .csv files carrying the expected header.
func (r *DailySeriesReader) CanRead(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil || len(header) != len(dailySeriesColumns) {
		return false
	}
	for i, col := range dailySeriesColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return false
		}
	}
	return true
}

// Read parses the file into canonical records, sorted by date then
// code for deterministic downstream grouping.
func (r *DailySeriesReader) Read(path string) ([]models.Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, &models.ValidationError{
			Field:   "header",
			Message: "empty file, expected a header row",
		}
	}

	measurements := make([]models.Measurement, 0, len(rows)-1)
	for i, row := range rows[1:] {
		m, err := r.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		measurements = append(measurements, m)
	}
	sort.SliceStable(measurements, func(i, j int) bool {
		if !measurements[i].Time.Equal(measurements[j].Time) {
			return measurements[i].Time.Before(measurements[j].Time)
		}
		return measurements[i].Code < measurements[j].Code
	})
	return measurements, nil
}

func (r *DailySeriesReader) parseRow(row []string) (models.Measurement, error) {
	if len(row) != len(dailySeriesColumns) {
		return models.Measurement{}, &models.ValidationError{
			Field:   "row",
			Message: fmt.Sprintf("expected %d columns, got %d", len(dailySeriesColumns), len(row)),
		}
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return models.Measurement{}, &models.ValidationError{
			Field:   "latitude",
			Value:   row[1],
			Message: "invalid latitude",
		}
	}
	date, err := time.Parse(dailySeriesDateLayout, strings.TrimSpace(row[2]))
	if err != nil {
		return models.Measurement{}, &models.ValidationError{
			Field:   "date",
			Value:   row[2],
			Message: "invalid date, expected YYYY-MM-DD",
		}
	}
	m := models.Measurement{
		Station: models.Station{
			ID:       strings.TrimSpace(row[0]),
			Latitude: latitude,
		},
		Time:  date,
		Code:  strings.TrimSpace(row[3]),
		Valid: true,
	}
	if raw := strings.TrimSpace(row[4]); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Measurement{}, &models.ValidationError{
				Field:   "value",
				Value:   row[4],
				Message: "invalid numeric value",
			}
		}
		m.Value = &value
	}
	return m, nil
}

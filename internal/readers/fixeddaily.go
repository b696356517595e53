package readers

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"climate-feed/internal/models"
)

// Missing-data marker of the fixed daily archive format.
const fixedDailyMissing = -9999

// Variable codes emitted by the fixed daily format, in column order
// after the date.
var fixedDailyCodes = []string{"Tmax", "Tmin", "PREC"}

// FixedDailyReader reads the tab-separated daily archive format:
// one line per day, YYYYMMDD then maximum temperature, minimum
// temperature and precipitation, all in tenths of their unit, with
// -9999 as the missing marker. The station identifier is the file
// name.
type FixedDailyReader struct{}

// NewFixedDailyReader creates a fixed daily reader.
func NewFixedDailyReader() *FixedDailyReader {
	return &FixedDailyReader{}
}

// Label implements RecordReader.
func (r *FixedDailyReader) Label() string { return "fixeddaily" }

// CanRead claims .txt files whose first line splits into four
// tab-separated fields starting with an eight-digit date.
func (r *FixedDailyReader) CanRead(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false
	}
	parts := strings.Split(scanner.Text(), "\t")
	if len(parts) != 4 {
		return false
	}
	_, err = time.Parse("20060102", strings.TrimSpace(parts[0]))
	return err == nil
}

// Read parses the file into canonical records: three measurements per
// line, in the order the variables appear.
func (r *FixedDailyReader) Read(path string) ([]models.Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	station := models.Station{
		ID: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	var measurements []models.Measurement
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rowMeasurements, err := r.parseLine(station, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		measurements = append(measurements, rowMeasurements...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return measurements, nil
}

// parseLine decodes one day: date plus tenths values for each
// variable, -9999 meaning absent.
func (r *FixedDailyReader) parseLine(station models.Station, line string) ([]models.Measurement, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != len(fixedDailyCodes)+1 {
		return nil, &models.ValidationError{
			Field:   "row",
			Message: fmt.Sprintf("expected %d fields, got %d", len(fixedDailyCodes)+1, len(parts)),
		}
	}
	date, err := time.Parse("20060102", strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, &models.ValidationError{
			Field:   "date",
			Value:   parts[0],
			Message: "invalid date, expected YYYYMMDD",
		}
	}
	measurements := make([]models.Measurement, 0, len(fixedDailyCodes))
	for i, code := range fixedDailyCodes {
		tenths, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil {
			return nil, &models.ValidationError{
				Field:   code,
				Value:   parts[i+1],
				Message: "invalid integer value",
			}
		}
		m := models.Measurement{
			Station: station,
			Time:    date,
			Code:    code,
			Valid:   true,
		}
		if tenths != fixedDailyMissing {
			value := float64(tenths) / 10.0
			m.Value = &value
		}
		measurements = append(measurements, m)
	}
	return measurements, nil
}

package readers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"climate-feed/internal/models"
)

// LoadThresholds reads a threshold table from a delimited resource
// with header "code,min,max". The table is loaded once by the caller
// and passed read-only into the pipeline.
func LoadThresholds(path string) (models.ThresholdTable, error) {
	rows, err := readTable(path, []string{"code", "min", "max"})
	if err != nil {
		return nil, fmt.Errorf("failed to load threshold table: %w", err)
	}
	table := make(models.ThresholdTable, len(rows))
	for i, row := range rows {
		min, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold row %d: invalid min %q", i+2, row[1])
		}
		max, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold row %d: invalid max %q", i+2, row[2])
		}
		table[strings.TrimSpace(row[0])] = models.Threshold{Min: min, Max: max}
	}
	return table, nil
}

// LoadLimitingParams reads a limiting-parameter table from a delimited
// resource with header "code,lower,upper", mapping each dependent
// variable to its bounding pair.
func LoadLimitingParams(path string) (models.LimitingParams, error) {
	rows, err := readTable(path, []string{"code", "lower", "upper"})
	if err != nil {
		return nil, fmt.Errorf("failed to load limiting-parameter table: %w", err)
	}
	params := make(models.LimitingParams, len(rows))
	for _, row := range rows {
		params[strings.TrimSpace(row[0])] = models.BoundingCodes{
			Lower: strings.TrimSpace(row[1]),
			Upper: strings.TrimSpace(row[2]),
		}
	}
	return params, nil
}

// readTable reads a CSV resource and verifies its header.
func readTable(path string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table, expected header %s", strings.Join(columns, ","))
	}
	header := rows[0]
	if len(header) != len(columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(columns), len(header))
	}
	for i, col := range columns {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("expected column %q at position %d, got %q", col, i, header[i])
		}
	}
	return rows[1:], nil
}

package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"climate-feed/internal/models"
)

func TestComputeFlag(t *testing.T) {
	start := testDay(2024, time.January, 1)

	tests := []struct {
		name        string
		records     []models.DailyRecord
		minCoverage float64
		numExpected int
		want        models.Flag
	}{
		{
			name:        "empty period",
			records:     nil,
			minCoverage: 0.75,
			numExpected: 10,
			want:        models.Flag{},
		},
		{
			name:        "non-positive expectation",
			records:     scalarDays(start, 1, 2, 3),
			minCoverage: 0.75,
			numExpected: 0,
			want:        models.Flag{},
		},
		{
			name:        "full coverage",
			records:     scalarDays(start, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
			minCoverage: 0.75,
			numExpected: 10,
			want:        models.Flag{ValidCount: 10, CoverageOK: true},
		},
		{
			name:        "coverage exactly at the threshold passes",
			records:     scalarDays(start, 1, 2, 3, 4, 5, 6, 7, 8),
			minCoverage: 0.8,
			numExpected: 10,
			want:        models.Flag{ValidCount: 8, CoverageOK: true},
		},
		{
			name:        "coverage below the threshold fails",
			records:     scalarDays(start, 1, 2, 3),
			minCoverage: 0.75,
			numExpected: 10,
			want:        models.Flag{ValidCount: 3, CoverageOK: false},
		},
		{
			name: "invalid and missing days do not contribute",
			records: []models.DailyRecord{
				scalarRec(start, 1),
				invalidRec(start.AddDate(0, 0, 1), 2),
				missingRec(start.AddDate(0, 0, 2)),
			},
			minCoverage: 0.3,
			numExpected: 3,
			want:        models.Flag{ValidCount: 1, CoverageOK: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFlag(tt.records, tt.minCoverage, tt.numExpected)
			assert.Equal(t, tt.want, got)
		})
	}
}

// yearRecords builds one valid record per day across the given day
// counts of the summer (Apr-Sep) and winter (Oct-Mar) halves of 2023.
func yearRecords(summerDays, winterDays int) []models.DailyRecord {
	var out []models.DailyRecord
	winterStart := testDay(2023, time.January, 1)
	lateWinterStart := testDay(2023, time.October, 1)
	for i := 0; i < winterDays; i++ {
		// Jan-Mar 2023 holds 90 days; further winter days continue
		// from Oct 1 so none spill into the Apr-Sep summer half.
		if i < 90 {
			out = append(out, scalarRec(winterStart.AddDate(0, 0, i), 5))
		} else {
			out = append(out, scalarRec(lateWinterStart.AddDate(0, 0, i-90), 5))
		}
	}
	summerStart := testDay(2023, time.April, 1)
	for i := 0; i < summerDays; i++ {
		out = append(out, scalarRec(summerStart.AddDate(0, 0, i), 20))
	}
	return out
}

func TestComputeTempFlag(t *testing.T) {
	t.Run("balanced year keeps coverage", func(t *testing.T) {
		records := yearRecords(150, 140)
		flag := ComputeTempFlag(records, 0.75, 365)
		assert.Equal(t, 290, flag.ValidCount)
		assert.True(t, flag.CoverageOK)
	})

	t.Run("seasonally skewed year loses coverage", func(t *testing.T) {
		// 183 summer days against 90 winter days clears the raw
		// fraction but not the seasonal balance
		records := yearRecords(183, 90)
		flag := ComputeTempFlag(records, 0.7, 365)
		assert.Equal(t, 273, flag.ValidCount)
		assert.False(t, flag.CoverageOK)
	})

	t.Run("imbalance of exactly twenty days is tolerated", func(t *testing.T) {
		records := yearRecords(160, 140)
		flag := ComputeTempFlag(records, 0.8, 365)
		assert.True(t, flag.CoverageOK)
	})

	t.Run("sub-yearly periods ignore the seasonal rule", func(t *testing.T) {
		records := yearRecords(25, 0)
		flag := ComputeTempFlag(records, 0.75, 30)
		assert.True(t, flag.CoverageOK)
	})

	t.Run("failed coverage is never resurrected", func(t *testing.T) {
		records := yearRecords(100, 100)
		flag := ComputeTempFlag(records, 0.75, 365)
		assert.False(t, flag.CoverageOK)
	})
}

// Package aggregate implements the temporal aggregation engine: the
// coverage flag calculator, the decade/month/year period grouper, the
// per-variable aggregation function library and the output record
// assembler.
package aggregate

import (
	"time"

	"climate-feed/internal/models"
)

// Seasonal imbalance tolerated by the yearly temperature flag, in days.
const maxSeasonImbalance = 20

// ComputeFlag returns the data-completeness flag for a period: the
// number of contributing records (valid and value-present), and
// whether that count reaches minCoverage of numExpected.
func ComputeFlag(records []models.DailyRecord, minCoverage float64, numExpected int) models.Flag {
	if len(records) == 0 || numExpected <= 0 {
		return models.Flag{}
	}
	count := 0
	for _, r := range records {
		if r.Contributes() {
			count++
		}
	}
	return models.Flag{
		ValidCount: count,
		CoverageOK: float64(count)/float64(numExpected) >= minCoverage,
	}
}

// ComputeTempFlag is the temperature-specific variant of ComputeFlag.
// On yearly periods it additionally rejects coverage when the valid
// summer-day and winter-day counts differ by more than 20 days: a year
// "complete" only because one season is over-represented must not pass.
func ComputeTempFlag(records []models.DailyRecord, minCoverage float64, numExpected int) models.Flag {
	flag := ComputeFlag(records, minCoverage, numExpected)
	if numExpected < 365 || !flag.CoverageOK {
		return flag
	}
	summer, winter := 0, 0
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		if isSummerDay(r.Date) {
			summer++
		} else {
			winter++
		}
	}
	if abs(summer-winter) > maxSeasonImbalance {
		flag.CoverageOK = false
	}
	return flag
}

// isSummerDay splits the year into the April-September summer half and
// the October-March winter half.
func isSummerDay(t time.Time) bool {
	return t.Month() >= time.April && t.Month() <= time.September
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

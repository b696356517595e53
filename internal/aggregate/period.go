package aggregate

import (
	"fmt"
	"time"

	"climate-feed/internal/models"
)

// Period is one finalized aggregation bucket: its key, the number of
// days expected for full coverage, and the member daily records.
type Period struct {
	Key      models.PeriodKey
	Expected int
	Records  []models.DailyRecord
}

// GroupPeriods buckets a chronologically sorted, station-grouped
// sequence of daily records into year, month and decade periods. Each
// station's records yield, in chronological order, one year period per
// calendar year, its month periods, and each month's three decades
// (days 1-10, 11-20, 21-end). Month and year periods retain the flat
// list of their member days, so every level aggregates directly over
// daily records.
//
// Input order is a precondition: records must arrive grouped by
// station with ascending dates inside each station block. A violation
// is returned as an error, never silently reordered.
func GroupPeriods(records []models.DailyRecord) ([]Period, error) {
	if err := verifyOrdered(records); err != nil {
		return nil, err
	}

	var periods []Period
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && records[end].Station.ID == records[start].Station.ID {
			end++
		}
		periods = append(periods, groupStation(records[start:end])...)
		start = end
	}
	return periods, nil
}

// verifyOrdered checks the grouped-by-station, ascending-date
// precondition. Stations must form contiguous blocks; a station seen
// again after another station's block means the input interleaves.
func verifyOrdered(records []models.DailyRecord) error {
	seen := make(map[string]bool)
	current := ""
	var prev time.Time
	for i, r := range records {
		if r.Station.ID != current {
			if seen[r.Station.ID] {
				return &models.PreconditionError{
					Op:     "period grouping",
					Detail: fmt.Sprintf("records of station %q are not contiguous", r.Station.ID),
				}
			}
			seen[r.Station.ID] = true
			current = r.Station.ID
			prev = r.Date
			continue
		}
		if r.Date.Before(prev) {
			return &models.PreconditionError{
				Op: "period grouping",
				Detail: fmt.Sprintf("station %q records not in ascending date order at index %d (%s after %s)",
					r.Station.ID, i, r.Date.Format("2006-01-02"), prev.Format("2006-01-02")),
			}
		}
		prev = r.Date
	}
	return nil
}

// groupStation emits the periods of one station's contiguous block.
func groupStation(records []models.DailyRecord) []Period {
	var periods []Period
	stationID := records[0].Station.ID

	for ys := 0; ys < len(records); {
		year := records[ys].Date.Year()
		ye := ys + 1
		for ye < len(records) && records[ye].Date.Year() == year {
			ye++
		}
		yearRecords := records[ys:ye]
		periods = append(periods, Period{
			Key: models.PeriodKey{
				StationID: stationID,
				Date:      time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
				Level:     models.LevelYear,
			},
			Expected: daysInYear(year),
			Records:  yearRecords,
		})

		for ms := 0; ms < len(yearRecords); {
			month := yearRecords[ms].Date.Month()
			me := ms + 1
			for me < len(yearRecords) && yearRecords[me].Date.Month() == month {
				me++
			}
			monthRecords := yearRecords[ms:me]
			monthDays := daysInMonth(year, month)
			periods = append(periods, Period{
				Key: models.PeriodKey{
					StationID: stationID,
					Date:      time.Date(year, month, monthDays, 0, 0, 0, 0, time.UTC),
					Level:     models.LevelMonth,
				},
				Expected: monthDays,
				Records:  monthRecords,
			})
			periods = append(periods, groupDecades(stationID, year, month, monthDays, monthRecords)...)
			ms = me
		}
		ys = ye
	}
	return periods
}

// groupDecades splits one month's records into the three decades.
func groupDecades(stationID string, year int, month time.Month, monthDays int, records []models.DailyRecord) []Period {
	var periods []Period
	for ds := 0; ds < len(records); {
		decade := decadeOf(records[ds].Date.Day())
		de := ds + 1
		for de < len(records) && decadeOf(records[de].Date.Day()) == decade {
			de++
		}
		closing, expected := decadeBounds(decade, monthDays)
		periods = append(periods, Period{
			Key: models.PeriodKey{
				StationID: stationID,
				Date:      time.Date(year, month, closing, 0, 0, 0, 0, time.UTC),
				Level:     models.LevelDecade,
			},
			Expected: expected,
			Records:  records[ds:de],
		})
		ds = de
	}
	return periods
}

func decadeOf(day int) int {
	switch {
	case day <= 10:
		return 1
	case day <= 20:
		return 2
	default:
		return 3
	}
}

// decadeBounds returns the closing day and expected day count of a
// decade. The third decade absorbs the month's tail (8 to 11 days).
func decadeBounds(decade, monthDays int) (closing, expected int) {
	switch decade {
	case 1:
		return 10, 10
	case 2:
		return 20, 10
	default:
		return monthDays, monthDays - 20
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

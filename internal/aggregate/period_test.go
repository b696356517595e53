package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func periodByKey(t *testing.T, periods []Period, date time.Time, level models.AggregationLevel) Period {
	t.Helper()
	for _, p := range periods {
		if p.Key.Date.Equal(date) && p.Key.Level == level {
			return p
		}
	}
	t.Fatalf("no period closing %s at level %s", date.Format("2006-01-02"), level)
	return Period{}
}

func TestGroupPeriodsDecades(t *testing.T) {
	// one record in each decade of January
	records := []models.DailyRecord{
		scalarRec(testDay(2023, time.January, 3), 1),
		scalarRec(testDay(2023, time.January, 15), 2),
		scalarRec(testDay(2023, time.January, 28), 3),
	}

	periods, err := GroupPeriods(records)
	require.NoError(t, err)

	first := periodByKey(t, periods, testDay(2023, time.January, 10), models.LevelDecade)
	assert.Equal(t, 10, first.Expected)
	assert.Len(t, first.Records, 1)

	second := periodByKey(t, periods, testDay(2023, time.January, 20), models.LevelDecade)
	assert.Equal(t, 10, second.Expected)

	// the third decade of January runs to day 31 and expects 11 days
	third := periodByKey(t, periods, testDay(2023, time.January, 31), models.LevelDecade)
	assert.Equal(t, 11, third.Expected)

	month := periodByKey(t, periods, testDay(2023, time.January, 31), models.LevelMonth)
	assert.Equal(t, 31, month.Expected)
	assert.Len(t, month.Records, 3)

	year := periodByKey(t, periods, testDay(2023, time.December, 31), models.LevelYear)
	assert.Equal(t, 365, year.Expected)
	assert.Len(t, year.Records, 3)
}

func TestGroupPeriodsThirdDecadeShortMonths(t *testing.T) {
	tests := []struct {
		name         string
		date         time.Time
		wantClosing  time.Time
		wantExpected int
	}{
		{"february", testDay(2023, time.February, 25), testDay(2023, time.February, 28), 8},
		{"leap february", testDay(2024, time.February, 25), testDay(2024, time.February, 29), 9},
		{"april", testDay(2023, time.April, 25), testDay(2023, time.April, 30), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := GroupPeriods([]models.DailyRecord{scalarRec(tt.date, 1)})
			require.NoError(t, err)
			decade := periodByKey(t, periods, tt.wantClosing, models.LevelDecade)
			assert.Equal(t, tt.wantExpected, decade.Expected)
		})
	}
}

func TestGroupPeriodsLeapYear(t *testing.T) {
	periods, err := GroupPeriods([]models.DailyRecord{scalarRec(testDay(2024, time.June, 1), 1)})
	require.NoError(t, err)
	year := periodByKey(t, periods, testDay(2024, time.December, 31), models.LevelYear)
	assert.Equal(t, 366, year.Expected)
}

func TestGroupPeriodsMultipleStations(t *testing.T) {
	other := testStation
	other.ID = "ST002"

	records := []models.DailyRecord{
		scalarRec(testDay(2023, time.May, 1), 1),
		scalarRec(testDay(2023, time.May, 2), 2),
		{Station: other, Date: testDay(2023, time.May, 1), Value: models.Scalar(3), Valid: true},
	}

	periods, err := GroupPeriods(records)
	require.NoError(t, err)

	var stations []string
	for _, p := range periods {
		if p.Key.Level == models.LevelYear {
			stations = append(stations, p.Key.StationID)
		}
	}
	assert.Equal(t, []string{"ST001", "ST002"}, stations)
}

func TestGroupPeriodsOrderViolations(t *testing.T) {
	other := testStation
	other.ID = "ST002"

	t.Run("descending dates", func(t *testing.T) {
		records := []models.DailyRecord{
			scalarRec(testDay(2023, time.May, 2), 1),
			scalarRec(testDay(2023, time.May, 1), 2),
		}
		_, err := GroupPeriods(records)
		require.Error(t, err)
		var precondition *models.PreconditionError
		assert.True(t, errors.As(err, &precondition))
	})

	t.Run("interleaved stations", func(t *testing.T) {
		records := []models.DailyRecord{
			scalarRec(testDay(2023, time.May, 1), 1),
			{Station: other, Date: testDay(2023, time.May, 1), Value: models.Scalar(2), Valid: true},
			scalarRec(testDay(2023, time.May, 2), 3),
		}
		_, err := GroupPeriods(records)
		require.Error(t, err)
		var precondition *models.PreconditionError
		assert.True(t, errors.As(err, &precondition))
	})

	t.Run("equal dates are tolerated", func(t *testing.T) {
		records := []models.DailyRecord{
			scalarRec(testDay(2023, time.May, 1), 1),
			scalarRec(testDay(2023, time.May, 1), 2),
		}
		_, err := GroupPeriods(records)
		assert.NoError(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		periods, err := GroupPeriods(nil)
		require.NoError(t, err)
		assert.Empty(t, periods)
	})
}

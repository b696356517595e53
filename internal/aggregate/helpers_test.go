package aggregate

import (
	"time"

	"climate-feed/internal/models"
)

var testStation = models.Station{ID: "ST001", Latitude: 44.5}

func testDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fp(v float64) *float64 { return &v }

func scalarRec(date time.Time, v float64) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Value: models.Scalar(v), Valid: true}
}

func invalidRec(date time.Time, v float64) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Value: models.Scalar(v), Valid: false}
}

func missingRec(date time.Time) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Valid: true}
}

func pairRec(date time.Time, first, second *float64) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Value: models.Pair{First: first, Second: second}, Valid: true}
}

func vectorRec(date time.Time, cells ...float64) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Value: models.Vector(cells), Valid: true}
}

// scalarDays builds a contiguous run of valid scalar records starting
// at date.
func scalarDays(start time.Time, values ...float64) []models.DailyRecord {
	out := make([]models.DailyRecord, len(values))
	for i, v := range values {
		out[i] = scalarRec(start.AddDate(0, 0, i), v)
	}
	return out
}
